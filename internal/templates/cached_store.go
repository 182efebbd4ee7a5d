package templates

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	megabyte           = 1024 * 1024
	defaultCacheSize   = 8 * megabyte
	defaultCacheExpire = 10 * 60 // seconds
)

var _ workout.TemplateStore = (*CachedStore)(nil)

// CachedStore keeps encoded templates and exercise info in memory for a
// short while. Templates are read-only from the controller's point of view,
// so stale entries only live until the expiry.
type CachedStore struct {
	next         workout.TemplateStore
	cache        *freecache.Cache
	expireSecond int
}

func NewCachedStore(next workout.TemplateStore, cacheSizeBytes, expireSeconds int) *CachedStore {
	if cacheSizeBytes <= 0 {
		cacheSizeBytes = defaultCacheSize
	}
	if expireSeconds <= 0 {
		expireSeconds = defaultCacheExpire
	}
	return &CachedStore{
		next:         next,
		cache:        freecache.NewCache(cacheSizeBytes),
		expireSecond: expireSeconds,
	}
}

func templateKey(templateID string) []byte {
	return []byte("template::" + templateID)
}

func exercisesKey(exerciseIDs []string) []byte {
	ids := append([]string(nil), exerciseIDs...)
	sort.Strings(ids)
	return []byte("exercises::" + strings.Join(ids, ","))
}

func (s *CachedStore) GetTemplate(ctx context.Context, templateID string) (_ *workout.Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.cached.getTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := templateKey(templateID)
	if cached, getErr := s.cache.Get(key); getErr == nil {
		tmpl := &workout.Template{}
		unmarshalErr := json.Unmarshal(cached, tmpl)
		if unmarshalErr == nil {
			span.SetAttributes(attribute.Bool("cache-hit", true))
			return tmpl, nil
		}
		log.Errorf("unmarshal cached template %s: %s", templateID, unmarshalErr)
	}

	tmpl, err := s.next.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	s.set(key, tmpl)
	return tmpl, nil
}

func (s *CachedStore) ExerciseInfo(ctx context.Context, exerciseIDs []string) (_ map[string]workout.ExerciseInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.cached.exerciseInfo")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := exercisesKey(exerciseIDs)
	if cached, getErr := s.cache.Get(key); getErr == nil {
		info := make(map[string]workout.ExerciseInfo)
		unmarshalErr := json.Unmarshal(cached, &info)
		if unmarshalErr == nil {
			span.SetAttributes(attribute.Bool("cache-hit", true))
			return info, nil
		}
		log.Errorf("unmarshal cached exercise info: %s", unmarshalErr)
	}

	info, err := s.next.ExerciseInfo(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}

	s.set(key, info)
	return info, nil
}

// Invalidate drops the cached template.
func (s *CachedStore) Invalidate(templateID string) {
	s.cache.Del(templateKey(templateID))
}

// Clear drops every cached entry.
func (s *CachedStore) Clear() {
	s.cache.Clear()
}

// Refresh drops the entries a seed run may have changed. Exercise info is
// keyed by sets of ids, so any catalog change clears the whole cache.
func (s *CachedStore) Refresh(seed *Seed) {
	if len(seed.Exercises) > 0 {
		s.Clear()
		return
	}
	for _, tmpl := range seed.Templates {
		s.Invalidate(tmpl.ID)
	}
}

func (s *CachedStore) set(key []byte, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		log.Errorf("marshal cache entry %s: %s", key, err)
		return
	}
	if err := s.cache.Set(key, encoded, s.expireSecond); err != nil {
		log.Errorf("set cache entry %s: %s", key, err)
	}
}
