package database

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/palemoky/classical-poetry/internal/logger"
)

// decodeList never fails: NULL, empty and malformed values all yield an
// empty, non-nil slice.
func decodeList[T any](raw datatypes.JSON, field string, id int64) []T {
	out := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return out
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Debug("Ignoring malformed stored field",
			zap.String("field", field),
			zap.Int64("poem_id", id),
			zap.Error(err),
		)
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}
