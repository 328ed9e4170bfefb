// internal/store/redis.go
//
// Redis backend (go-redis).
//
// Layout
// ------
//   <prefix>:<kind>:<id>   HASH  one record, field names match SQL columns
//   <prefix>:<kind>        ZSET  id index scored by date_created (ms)
//
// The insert runs as one Lua script so the hash write, the server-clock
// timestamp, and the index update are atomic.  date_created is stored as
// Unix milliseconds taken from the Redis TIME command.
package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/audiocat/site/internal/model"
)

const (
	kindRenderErrorLog = "render_error_log"
	kindLicenseKey     = "license_key"
)

// insertScript writes ARGV pairs into KEYS[1], stamps date_created from
// the server clock, and indexes the id in KEYS[2].  Returns the stamp in
// milliseconds.
var insertScript = redis.NewScript(`
local t = redis.call('TIME')
local ms = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)
redis.call('HSET', KEYS[1], 'date_created', ms, unpack(ARGV))
redis.call('ZADD', KEYS[2], ms, KEYS[3])
return ms
`)

// Redis implements Store over a go-redis client.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedis wraps a client.  prefix namespaces every key.
func NewRedis(rdb redis.UniversalClient, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// DialRedis opens a client for addr/db.
func DialRedis(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func (r *Redis) recordKey(kind, id string) string { return r.prefix + ":" + kind + ":" + id }
func (r *Redis) indexKey(kind string) string      { return r.prefix + ":" + kind }

func (r *Redis) insert(ctx context.Context, kind string, fields []any) (string, time.Time, error) {
	id := newID()
	keys := []string{r.recordKey(kind, id), r.indexKey(kind), id}
	ms, err := insertScript.Run(ctx, r.rdb, keys, fields...).Int64()
	if err != nil {
		return "", time.Time{}, persistErr("insert "+kind, err)
	}
	return id, time.UnixMilli(ms).UTC(), nil
}

// CreateRenderErrorLog stores rec and fills ID and DateCreated.
func (r *Redis) CreateRenderErrorLog(ctx context.Context, rec *model.RenderErrorLog) error {
	rec.Message = model.TruncateMessage(rec.Message)
	id, created, err := r.insert(ctx, kindRenderErrorLog, renderErrorLogFields(rec))
	if err != nil {
		return err
	}
	rec.ID, rec.DateCreated = id, created
	return nil
}

// CreateLicenseKey stores rec and fills ID and DateCreated.
func (r *Redis) CreateLicenseKey(ctx context.Context, rec *model.LicenseKeySubmission) error {
	id, created, err := r.insert(ctx, kindLicenseKey, licenseKeyFields(rec))
	if err != nil {
		return err
	}
	rec.ID, rec.DateCreated = id, created
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return persistErr("ping", err)
	}
	return nil
}

// Close releases the client.
func (r *Redis) Close() error { return r.rdb.Close() }

//
// field encoders
//

func renderErrorLogFields(rec *model.RenderErrorLog) []any {
	return []any{
		"case_category", strconv.FormatInt(rec.CaseCategory, 10),
		"message", rec.Message,
		"js_heap_size_limit", strconv.FormatInt(rec.JSHeapSizeLimit, 10),
		"used_js_heap_size", strconv.FormatInt(rec.UsedJSHeapSize, 10),
		"total_js_heap_size", strconv.FormatInt(rec.TotalJSHeapSize, 10),
	}
}

// licenseKeyFields omits nil optionals so HGET returns nil for NULL.
func licenseKeyFields(rec *model.LicenseKeySubmission) []any {
	f := []any{"person_name", rec.PersonName}
	if rec.Email != nil {
		f = append(f, "email", *rec.Email)
	}
	if rec.LicenseKey != nil {
		f = append(f, "license_key", *rec.LicenseKey)
	}
	if rec.Amount != nil {
		f = append(f, "amount", strconv.FormatInt(*rec.Amount, 10))
	}
	if rec.Comments != nil {
		f = append(f, "comments", *rec.Comments)
	}
	return f
}
