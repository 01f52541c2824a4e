package audit

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aminekone/ticketbridge/internal/config"
)

// Journal is the append-only request log: every inbound webhook body and every
// vendor response is written verbatim as a JSON line. The file is rotated by
// size/age; the journal is an audit artifact, not a data store.
type Journal struct {
	sink *zap.Logger

	mu       sync.Mutex
	counters map[string]int
}

// NewJournal opens (creating if needed) the rotating journal file.
func NewJournal(cfg config.AuditConfig) *Journal {
	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(rotating),
		zapcore.InfoLevel,
	)

	return &Journal{
		sink:     zap.New(core),
		counters: make(map[string]int),
	}
}

// RecordRequest journals an inbound request body verbatim.
func (j *Journal) RecordRequest(requestID, endpoint, body string) {
	if j == nil {
		return
	}
	j.sink.Info("inbound_request",
		zap.String("request_id", requestID),
		zap.String("endpoint", endpoint),
		zap.String("body", body))

	j.mu.Lock()
	j.counters[endpoint]++
	j.mu.Unlock()
}

// RecordVendor journals a vendor call result verbatim.
func (j *Journal) RecordVendor(requestID, vendor string, payload any) {
	if j == nil {
		return
	}
	j.sink.Info("vendor_response",
		zap.String("request_id", requestID),
		zap.String("vendor", vendor),
		zap.Any("payload", payload))
}

// DrainCounters returns per-endpoint request counts accumulated since the
// previous drain and resets them. Used by the daily rollup job.
func (j *Journal) DrainCounters() map[string]int {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	out := j.counters
	j.counters = make(map[string]int)
	return out
}

// Sync flushes buffered journal entries.
func (j *Journal) Sync() error {
	if j == nil {
		return nil
	}
	return j.sink.Sync()
}
