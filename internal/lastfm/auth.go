package lastfm

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

// DefaultCallbackAddr is where the local auth callback server listens.
const DefaultCallbackAddr = "127.0.0.1:9847"

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>Wavestream - Last.fm Authorization</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
{{if .}}<h1>Authorization Successful!</h1>
<p>You can close this window and return to Wavestream.</p>
{{else}}<h1>Authorization Failed</h1>
<p>No token received. Please try again.</p>
{{end}}</body>
</html>`))

// AuthServer handles the web auth callback flow.
type AuthServer struct {
	server    *http.Server
	listener  net.Listener
	tokenChan chan string
	done      chan struct{}
}

// StartAuthServer starts a local HTTP server on addr to receive the
// callback. The token arrives on TokenChan.
func StartAuthServer(addr string) (*AuthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	as := &AuthServer{
		listener:  listener,
		tokenChan: make(chan string, 1),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", as.handleCallback)
	as.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = as.server.Serve(listener)
		close(as.done)
	}()

	return as, nil
}

func (as *AuthServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = callbackPage.Execute(w, token != "")

	if token == "" {
		return
	}
	select {
	case as.tokenChan <- token:
	default:
	}
}

// CallbackURL is the URL to hand to Last.fm as the redirect target.
func (as *AuthServer) CallbackURL() string {
	return "http://" + as.listener.Addr().String() + "/callback"
}

// TokenChan returns the channel that receives the auth token.
func (as *AuthServer) TokenChan() <-chan string {
	return as.tokenChan
}

// WaitToken blocks until a token arrives or ctx ends.
func (as *AuthServer) WaitToken(ctx context.Context) (string, error) {
	select {
	case tok := <-as.tokenChan:
		return tok, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Shutdown stops the auth server.
func (as *AuthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = as.server.Shutdown(ctx)
	<-as.done
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
