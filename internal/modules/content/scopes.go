package content

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sekolah-web/core/internal/models"
)

type Scope = func(*gorm.DB) *gorm.DB

func Active() Scope {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where("is_active = ?", true) }
}

func Featured() Scope {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where("is_featured = ?", true) }
}

// InCategory filters by category code; an empty code matches everything.
func InCategory(code string) Scope {
	return func(tx *gorm.DB) *gorm.DB {
		if code == "" {
			return tx
		}
		return tx.Where("category = ?", code)
	}
}

// Search matches term case-insensitively against any of cols.
func Search(term string, cols ...string) Scope {
	return func(tx *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(strings.ToLower(term))
		if term == "" || len(cols) == 0 {
			return tx
		}
		like := "%" + escapeLike(term) + "%"
		parts := make([]string, 0, len(cols))
		args := make([]interface{}, 0, len(cols))
		for _, c := range cols {
			parts = append(parts, "LOWER("+c+") LIKE ? ESCAPE '!'")
			args = append(args, like)
		}
		return tx.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

// Published keeps rows whose status is published and whose publication time has come.
func Published(now time.Time) Scope {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ? AND published_at IS NOT NULL AND published_at <= ?", models.StatusPublished, now)
	}
}

// ByOrder sorts by the display order, then by secondary, then id.
func ByOrder(secondary string) string {
	if secondary == "" {
		return "sort_order ASC, id ASC"
	}
	return "sort_order ASC, " + secondary + ", id ASC"
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
