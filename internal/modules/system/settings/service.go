// Package settings is the typed key-value store behind the site settings,
// read through a cache.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/system/activitylog"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/cache"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

const publicKey = "public"

func keyEntry(key string) string     { return "key:" + key }
func groupEntry(group string) string { return "group:" + group }

type Service struct {
	db       *gorm.DB
	cache    cache.Cache
	ttl      time.Duration
	activity *activitylog.Logger
	logger   *zap.Logger
	loads    singleflight.Group

	mu    sync.Mutex
	gens  map[string]uint64
	epoch uint64
}

func NewService(db *gorm.DB, c cache.Cache, ttl time.Duration, activity *activitylog.Logger, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		cache:    c,
		ttl:      ttl,
		activity: activity,
		logger:   logger.Named("settings"),
		gens:     map[string]uint64{},
	}
}

// Get returns the typed value of key.
func (s *Service) Get(ctx context.Context, key string) (Value, error) {
	m, err := s.model(ctx, key)
	if err != nil {
		return Value{}, err
	}
	return valueOf(*m), nil
}

// String returns key as a string, or def when the key is missing.
func (s *Service) String(ctx context.Context, key, def string) string {
	v, ok := s.lookup(ctx, key)
	if !ok {
		return def
	}
	if str, ok := v.Data.(string); ok {
		return str
	}
	return fmt.Sprint(v.Data)
}

func (s *Service) Int(ctx context.Context, key string, def int64) int64 {
	v, ok := s.lookup(ctx, key)
	if !ok {
		return def
	}
	switch n := v.Data.(type) {
	case int64:
		return n
	case string:
		if c, ok := Cast(models.SettingInteger, n).(int64); ok {
			return c
		}
	case float64:
		return int64(n)
	}
	return def
}

func (s *Service) Bool(ctx context.Context, key string, def bool) bool {
	v, ok := s.lookup(ctx, key)
	if !ok {
		return def
	}
	switch b := v.Data.(type) {
	case bool:
		return b
	case string:
		return Cast(models.SettingBoolean, b).(bool)
	case int64:
		return b != 0
	}
	return def
}

// JSON decodes a json setting into dest. It reports false, leaving dest
// untouched, when the key is missing or empty.
func (s *Service) JSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	m, err := s.model(ctx, key)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if m.Value == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(m.Value), dest); err != nil {
		return false, fmt.Errorf("setting %s: %w", key, err)
	}
	return true, nil
}

// Set stores a new value for an existing key. The cached key, its group and
// the public map are invalidated before Set returns.
func (s *Service) Set(ctx context.Context, key string, value interface{}) (Value, error) {
	if key == "" {
		return Value{}, apperr.NotFound("setting", key)
	}
	var current models.SettingModel
	if err := s.db.WithContext(ctx).Where(models.SettingModel{Key: key}).First(&current).Error; err != nil {
		return Value{}, apperr.FromDB("setting", key, err)
	}
	raw, err := Encode(current.Type, value)
	if err != nil {
		return Value{}, err
	}

	before := current
	err = s.db.WithContext(ctx).Model(&current).Update("value", raw).Error
	if err != nil {
		return Value{}, fmt.Errorf("update setting %s: %w", key, err)
	}
	current.Value = raw
	if err := s.invalidate(ctx, key, current.Group); err != nil {
		return Value{}, err
	}

	s.activity.Updated(ctx, &current, before, current, "Mengubah pengaturan "+key)
	return valueOf(current), nil
}

// Group returns the settings of group in display order.
func (s *Service) Group(ctx context.Context, group string) ([]Value, error) {
	var rows []models.SettingModel
	hit, err := s.cached(ctx, groupEntry(group), &rows)
	if err != nil {
		return nil, err
	}
	if !hit {
		v, err := s.load(ctx, groupEntry(group), func() (interface{}, error) {
			var out []models.SettingModel
			err := s.db.WithContext(ctx).Where(map[string]interface{}{"group": group}).
				Order("sort_order ASC, id ASC").Find(&out).Error
			if err != nil {
				return nil, fmt.Errorf("load setting group %s: %w", group, err)
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		rows = v.([]models.SettingModel)
	}

	out := make([]Value, 0, len(rows))
	for _, m := range rows {
		out = append(out, valueOf(m))
	}
	return out, nil
}

// Public returns every public setting keyed by its key.
func (s *Service) Public(ctx context.Context) (map[string]interface{}, error) {
	var rows []models.SettingModel
	hit, err := s.cached(ctx, publicKey, &rows)
	if err != nil {
		return nil, err
	}
	if !hit {
		v, err := s.load(ctx, publicKey, func() (interface{}, error) {
			var out []models.SettingModel
			if err := s.db.WithContext(ctx).Where(map[string]interface{}{"is_public": true}).
				Order("sort_order ASC, id ASC").Find(&out).Error; err != nil {
				return nil, fmt.Errorf("load public settings: %w", err)
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		rows = v.([]models.SettingModel)
	}

	out := make(map[string]interface{}, len(rows))
	for _, m := range rows {
		out[m.Key] = Cast(m.Type, m.Value)
	}
	return out, nil
}

// All lists every setting ordered by group, then display order.
func (s *Service) All(ctx context.Context) ([]models.SettingModel, error) {
	var rows []models.SettingModel
	err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "group"}}).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return rows, nil
}

// Groups lists the distinct group names.
func (s *Service) Groups(ctx context.Context) ([]string, error) {
	rows, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, m := range rows {
		if !seen[m.Group] {
			seen[m.Group] = true
			out = append(out, m.Group)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Upsert creates or redefines a setting.
func (s *Service) Upsert(ctx context.Context, d Definition) (*models.SettingModel, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	raw, err := Encode(d.Type, d.Value)
	if err != nil {
		return nil, err
	}

	var existing models.SettingModel
	err = s.db.WithContext(ctx).Where(models.SettingModel{Key: d.Key}).First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load setting %s: %w", d.Key, err)
	}

	m := models.SettingModel{
		Key:         d.Key,
		Value:       raw,
		Type:        d.Type,
		Group:       d.Group,
		Label:       d.Label,
		Description: d.Description,
		IsPublic:    d.IsPublic,
		Order:       d.Order,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "group", "label", "description", "is_public", "sort_order", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return nil, fmt.Errorf("upsert setting %s: %w", d.Key, err)
	}

	groups := []string{d.Group}
	if found && existing.Group != d.Group {
		groups = append(groups, existing.Group)
	}
	if err := s.invalidate(ctx, d.Key, groups...); err != nil {
		return nil, err
	}

	var saved models.SettingModel
	if err := s.db.WithContext(ctx).Where(models.SettingModel{Key: d.Key}).First(&saved).Error; err != nil {
		return nil, apperr.FromDB("setting", d.Key, err)
	}
	if found {
		s.activity.Updated(ctx, &saved, existing, saved, "Mengubah pengaturan "+d.Key)
	} else {
		s.activity.Created(ctx, &saved, "Menambahkan pengaturan "+d.Key)
	}
	return &saved, nil
}

// Delete removes a setting.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return apperr.NotFound("setting", key)
	}
	var m models.SettingModel
	if err := s.db.WithContext(ctx).Where(models.SettingModel{Key: key}).First(&m).Error; err != nil {
		return apperr.FromDB("setting", key, err)
	}
	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	if err := s.invalidate(ctx, key, m.Group); err != nil {
		return err
	}
	s.activity.Deleted(ctx, &m, "Menghapus pengaturan "+key)
	return nil
}

// ClearCache drops every cached setting.
func (s *Service) ClearCache(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("clear settings cache: %w", err)
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, key string) (Value, bool) {
	v, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.logger.Warn("read setting failed", zap.String("key", key), zap.Error(err))
		}
		return Value{}, false
	}
	return v, true
}

func (s *Service) model(ctx context.Context, key string) (*models.SettingModel, error) {
	if key == "" {
		return nil, apperr.NotFound("setting", key)
	}
	var m models.SettingModel
	hit, err := s.cached(ctx, keyEntry(key), &m)
	if err != nil {
		return nil, err
	}
	if hit {
		return &m, nil
	}

	v, err := s.load(ctx, keyEntry(key), func() (interface{}, error) {
		var row models.SettingModel
		if err := s.db.WithContext(ctx).Where(models.SettingModel{Key: key}).First(&row).Error; err != nil {
			return nil, apperr.FromDB("setting", key, err)
		}
		return row, nil
	})
	if err != nil {
		return nil, err
	}
	row := v.(models.SettingModel)
	return &row, nil
}

// cached decodes a cache entry into dest. Cache failures count as a miss.
func (s *Service) cached(ctx context.Context, entry string, dest interface{}) (bool, error) {
	raw, ok, err := s.cache.Get(ctx, entry)
	if err != nil {
		s.logger.Warn("settings cache read failed", zap.String("entry", entry), zap.Error(err))
		return false, nil
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("settings cache entry corrupt", zap.String("entry", entry), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// load runs fetch once per entry and generation and caches the result. Misses
// that start after an invalidation never join a load that started before it.
func (s *Service) load(ctx context.Context, entry string, fetch func() (interface{}, error)) (interface{}, error) {
	gen := s.generation(entry)
	v, err, _ := s.loads.Do(entry+"@"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		s.store(ctx, entry, gen, v)
		return v, nil
	})
	return v, err
}

func (s *Service) generation(entry string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch + s.gens[entry]
}

// store caches v unless entry was invalidated after the load read it. A write
// that races the invalidation is dropped again once it lands.
func (s *Service) store(ctx context.Context, entry string, gen uint64, v interface{}) {
	if s.generation(entry) != gen {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, entry, raw, s.ttl); err != nil {
		s.logger.Warn("settings cache write failed", zap.String("entry", entry), zap.Error(err))
		return
	}
	if s.generation(entry) != gen {
		if err := s.cache.Invalidate(ctx, entry); err != nil {
			s.logger.Warn("drop stale settings entry failed", zap.String("entry", entry), zap.Error(err))
		}
	}
}

func (s *Service) invalidate(ctx context.Context, key string, groups ...string) error {
	entries := []string{keyEntry(key), publicKey}
	for _, g := range groups {
		entries = append(entries, groupEntry(g))
	}
	s.mu.Lock()
	for _, e := range entries {
		s.gens[e]++
	}
	s.mu.Unlock()
	if err := s.cache.Invalidate(ctx, entries...); err != nil {
		return fmt.Errorf("invalidate setting %s: %w", key, err)
	}
	return nil
}
