package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/redisclient"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const employeeCachePrefix = "employee"

// storeScript writes ARGV[1] for ARGV[3] milliseconds unless the cached entry
// is a tombstone or already holds version ARGV[2] or newer. ARGV[4] = "1"
// skips both checks. Undecodable entries are overwritten. A zero TTL never expires.
const storeScript = `
local current = redis.call("GET", KEYS[1])
if current and ARGV[4] ~= "1" then
	local ok, entry = pcall(cjson.decode, current)
	if ok and type(entry) == "table" then
		if entry.deleted then
			return 0
		end
		local version = tonumber(entry.version)
		if version and version >= tonumber(ARGV[2]) then
			return 0
		end
	end
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1`

// cachedEmployee is the cache wire format. A tombstone marks a deleted
// record so that in-flight reads cannot resurrect it.
type cachedEmployee struct {
	Deleted bool `json:"deleted,omitempty"`
	models.EmployeeData
}

// CachedEmployeeRepository is a Redis read-through cache over another
// repository. Lookups by document are cached; list queries pass through.
// Cache writes never lower the cached version, so a slow read cannot
// replace a newer record. Redis failures degrade to the underlying repository.
type CachedEmployeeRepository struct {
	EmployeeRepository
	redis  *redisclient.Client
	ttl    time.Duration
	logger *logging.SafeLogger
}

// NewCachedEmployeeRepository wraps next with a cache of the given TTL
func NewCachedEmployeeRepository(next EmployeeRepository, client *redisclient.Client, ttl time.Duration, logger *logging.SafeLogger) *CachedEmployeeRepository {
	return &CachedEmployeeRepository{
		EmployeeRepository: next,
		redis:              client,
		ttl:                ttl,
		logger:             logger.Named("employee_cache"),
	}
}

func employeeCacheKey(doc models.DocumentNumber) string {
	return fmt.Sprintf("%s:cache:%s", employeeCachePrefix, doc.String())
}

func (r *CachedEmployeeRepository) FindByDocument(ctx context.Context, doc models.DocumentNumber) (*models.Employee, error) {
	key := employeeCacheKey(doc)
	masked := observability.MaskDocument(doc.String())

	if e, ok := r.get(ctx, key, masked); ok {
		return e, nil
	}

	e, err := r.EmployeeRepository.FindByDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	r.store(ctx, e, false)
	return e, nil
}

// Save caches the new record, replacing any tombstone left by a delete
func (r *CachedEmployeeRepository) Save(ctx context.Context, e *models.Employee) error {
	if err := r.EmployeeRepository.Save(ctx, e); err != nil {
		return err
	}
	r.store(ctx, e, true)
	return nil
}

// Update writes the committed record through. After a conflict the cached
// copy is refreshed from storage so the retry does not read it again.
func (r *CachedEmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	err := r.EmployeeRepository.Update(ctx, e)
	switch {
	case err == nil:
		r.store(ctx, e, false)
	case utils.IsOptimisticLockError(err):
		r.refresh(ctx, e.Document())
	case errors.Is(err, models.ErrEmployeeNotFound):
		r.tombstone(ctx, e.Document())
	default:
		r.invalidate(ctx, e.Document())
	}
	return err
}

func (r *CachedEmployeeRepository) Delete(ctx context.Context, doc models.DocumentNumber) error {
	err := r.EmployeeRepository.Delete(ctx, doc)
	if err == nil || errors.Is(err, models.ErrEmployeeNotFound) {
		r.tombstone(ctx, doc)
	}
	return err
}

// Exists answers from the cache when the record is cached
func (r *CachedEmployeeRepository) Exists(ctx context.Context, doc models.DocumentNumber) (bool, error) {
	if _, ok := r.get(ctx, employeeCacheKey(doc), observability.MaskDocument(doc.String())); ok {
		return true, nil
	}
	return r.EmployeeRepository.Exists(ctx, doc)
}

func (r *CachedEmployeeRepository) IsDocumentUnique(ctx context.Context, doc models.DocumentNumber) (bool, error) {
	exists, err := r.Exists(ctx, doc)
	return !exists, err
}

func (r *CachedEmployeeRepository) get(ctx context.Context, key, masked string) (*models.Employee, bool) {
	ctx, span := utils.TraceCacheGet(ctx, employeeCachePrefix+":cache:"+masked)
	defer span.End()

	raw, err := r.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observability.CacheHits.WithLabelValues("miss").Inc()
		utils.AddSpanAttribute(span, "cache.hit", false)
		return nil, false
	}
	if err != nil {
		observability.CacheHits.WithLabelValues("error").Inc()
		r.logger.Warn("employee cache read failed", zap.String("document_number", masked), zap.Error(err))
		return nil, false
	}

	var entry cachedEmployee
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		observability.CacheHits.WithLabelValues("error").Inc()
		r.logger.Warn("discarding undecodable cache entry", zap.String("document_number", masked), zap.Error(err))
		return nil, false
	}
	if entry.Deleted {
		observability.CacheHits.WithLabelValues("miss").Inc()
		utils.AddSpanAttribute(span, "cache.hit", false)
		return nil, false
	}
	e, err := entry.EmployeeData.Build()
	if err != nil {
		observability.CacheHits.WithLabelValues("error").Inc()
		r.logger.Warn("discarding invalid cache entry", zap.String("document_number", masked), zap.Error(err))
		return nil, false
	}

	observability.CacheHits.WithLabelValues("hit").Inc()
	utils.AddSpanAttribute(span, "cache.hit", true)
	return e, true
}

// store writes e unless the cache already holds the same or a newer version.
// force overwrites unconditionally.
func (r *CachedEmployeeRepository) store(ctx context.Context, e *models.Employee, force bool) {
	raw, err := json.Marshal(cachedEmployee{EmployeeData: e.ToData()})
	if err != nil {
		r.logger.Error("failed to encode employee for cache", zap.Error(err))
		r.invalidate(ctx, e.Document())
		return
	}
	r.write(ctx, e.Document(), raw, e.Version(), force)
}

func (r *CachedEmployeeRepository) tombstone(ctx context.Context, doc models.DocumentNumber) {
	raw, _ := json.Marshal(struct {
		Deleted bool `json:"deleted"`
	}{Deleted: true})
	r.write(ctx, doc, raw, 0, true)
}

func (r *CachedEmployeeRepository) write(ctx context.Context, doc models.DocumentNumber, raw []byte, version int64, force bool) {
	masked := observability.MaskDocument(doc.String())
	ctx, span := utils.TraceCacheSet(ctx, employeeCachePrefix+":cache:"+masked, r.ttl)
	defer span.End()

	forceArg := "0"
	if force {
		forceArg = "1"
	}
	written, err := r.redis.Eval(ctx, storeScript, []string{employeeCacheKey(doc)},
		string(raw), strconv.FormatInt(version, 10), r.ttl.Milliseconds(), forceArg).Int()
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"cache.operation": "store"})
		r.logger.Warn("employee cache write failed", zap.String("document_number", masked), zap.Error(err))
		r.invalidate(ctx, doc)
		return
	}
	utils.AddSpanAttribute(span, "cache.written", written == 1)
}

// refresh reloads doc from storage into the cache
func (r *CachedEmployeeRepository) refresh(ctx context.Context, doc models.DocumentNumber) {
	current, err := r.EmployeeRepository.FindByDocument(ctx, doc)
	switch {
	case err == nil:
		r.store(ctx, current, false)
	case errors.Is(err, models.ErrEmployeeNotFound):
		r.tombstone(ctx, doc)
	default:
		r.invalidate(ctx, doc)
	}
}

func (r *CachedEmployeeRepository) invalidate(ctx context.Context, doc models.DocumentNumber) {
	masked := observability.MaskDocument(doc.String())
	ctx, span := utils.TraceCacheInvalidation(ctx, employeeCachePrefix+":cache:"+masked)
	defer span.End()

	if err := r.redis.Del(ctx, employeeCacheKey(doc)).Err(); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"cache.operation": "delete"})
		r.logger.Warn("employee cache invalidation failed", zap.String("document_number", masked), zap.Error(err))
	}
}
