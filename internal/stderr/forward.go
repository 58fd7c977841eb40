package stderr

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"
)

// forward logs every non-blank line of r until EOF.
func forward(r io.Reader, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("stderr")
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			logger.Warn(line)
		}
	}
}
