package store

import (
	"context"
	"fmt"

	"github.com/27Shambhavi/shunting/internal/model"
)

// Import appends records to s in order. It stops at the first failure and
// reports how many were stored before it. Stores implementing
// BatchAppender get every record before the first invalid one in a single
// write.
func Import(ctx context.Context, s Store, records []model.OccupancyRecord) (int, error) {
	if b, ok := s.(BatchAppender); ok {
		return importBatch(ctx, b, records)
	}
	imported := 0
	for _, r := range records {
		if err := s.Append(ctx, r); err != nil {
			return imported, fmt.Errorf("import %s: %w", r.ID, err)
		}
		imported++
	}
	return imported, nil
}

func importBatch(ctx context.Context, b BatchAppender, records []model.OccupancyRecord) (int, error) {
	n := len(records)
	var invalid error
	for i, r := range records {
		if err := r.Validate(); err != nil {
			n, invalid = i, fmt.Errorf("import %s: %w", r.ID, err)
			break
		}
	}
	if n > 0 {
		if err := b.AppendBatch(ctx, records[:n]); err != nil {
			return 0, fmt.Errorf("import: %w", err)
		}
	}
	return n, invalid
}
