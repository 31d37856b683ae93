package content

import (
	"context"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/system/activitylog"
)

// activityEntry builds an entry whose metadata is given as key, value pairs.
func activityEntry(action models.ActivityAction, subject models.Subject, description string, kv ...interface{}) activitylog.Entry {
	e := activitylog.Entry{Action: action, Description: description, Subject: subject}
	if len(kv) > 1 {
		e.Metadata = make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				e.Metadata[k] = kv[i+1]
			}
		}
	}
	return e
}

// Record writes a custom activity entry about subject.
func Record(ctx context.Context, l *activitylog.Logger, action models.ActivityAction, subject models.Subject, description string, kv ...interface{}) {
	l.Log(ctx, activityEntry(action, subject, description, kv...))
}
