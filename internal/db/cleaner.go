package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartHistoryCleaner periodically deletes passphrase hashes that were
// superseded more than retention ago. It stops when ctx is cancelled.
func StartHistoryCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purgeHistory(ctx, db, time.Now().Add(-retention), log)
			}
		}
	}()
}

func purgeHistory(ctx context.Context, db *sql.DB, before time.Time, log *zap.Logger) {
	res, err := db.ExecContext(ctx, `
        DELETE FROM passphrases
         WHERE superseded = true
           AND superseded_at < $1
    `, before.Unix())
	if err != nil {
		log.Error("failed to clean passphrase history", zap.Error(err))
		return
	}
	if rows, _ := res.RowsAffected(); rows > 0 {
		log.Info("cleaned passphrase history", zap.Int64("removed", rows))
	}
}
