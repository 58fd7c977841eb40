package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/wavestream/internal/db"
	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/playback"
)

func getTransport(conn *sql.DB) (playback.TransportState, error) {
	t := playback.DefaultTransport()

	err := conn.QueryRow(`SELECT volume, muted, rate FROM transport_state WHERE id = 1`).
		Scan(&t.Volume, &t.Muted, &t.Rate)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return t, err
	}

	rows, err := conn.Query(`SELECT band, gain FROM eq_gains`)
	if err != nil {
		return t, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var gain float64
		if err := rows.Scan(&name, &gain); err != nil {
			return t, err
		}
		b, ok := graph.ParseBand(name)
		if !ok {
			// band from a newer version
			continue
		}
		t.EQ.Set(b, graph.ClampBandGain(gain))
	}
	return t, rows.Err()
}

func saveTransport(ctx context.Context, conn *sql.DB, t playback.TransportState) error {
	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO transport_state (id, volume, muted, rate, updated_at)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				volume = excluded.volume,
				muted = excluded.muted,
				rate = excluded.rate,
				updated_at = excluded.updated_at
		`, t.Volume, t.Muted, t.Rate, time.Now().Unix())
		if err != nil {
			return err
		}

		for _, b := range graph.Bands {
			_, err := tx.Exec(`
				INSERT INTO eq_gains (band, gain) VALUES (?, ?)
				ON CONFLICT(band) DO UPDATE SET gain = excluded.gain
			`, b.String(), t.EQ.Get(b))
			if err != nil {
				return err
			}
		}
		return nil
	})
}
