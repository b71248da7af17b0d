package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adriancmurray/notICE/internal/models"
	"github.com/apex/log"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Columns the limiter probes for prior submissions, in precedence order.
// Older deployments may predate one or both of these, so a missing column is
// a runtime fallback rather than an error.
const (
	FingerprintColumn = "device_fingerprint"
	ClientIPColumn    = "ip_address"
)

// ErrRateLimited is returned by Admit when the identity already submitted a
// report inside the configured window. It is the only hard rejection in the
// ingestion path.
var ErrRateLimited = errors.New("rate limited")

// ErrUnknownField marks a store query that referenced a column the current
// schema does not have.
var ErrUnknownField = errors.New("unknown field")

// RecentReportFinder is the slice of the record store the limiter needs:
// the most recent report whose column matches value, created at or after
// since. A nil report with nil error means no match.
type RecentReportFinder interface {
	FindRecentByField(field, value string, since time.Time) (*models.Report, error)
}

// RateLimiter admits or rejects report creation for an identity based on the
// store's recent history. Every failure mode except an actual rate-limit hit
// fails open: the public submission path stays available even when auxiliary
// pieces are partially provisioned.
type RateLimiter struct {
	store  RecentReportFinder
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(store RecentReportFinder) *RateLimiter {
	window := time.Hour
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			window = d
		} else {
			log.Warnf("Invalid RATE_LIMIT_WINDOW %q, using 1h", v)
		}
	}

	return &RateLimiter{
		store:  store,
		window: window,
		now:    time.Now,
	}
}

// Window returns the configured rate-limit window.
func (l *RateLimiter) Window() time.Duration {
	return l.window
}

// Admit decides whether identity may create a new report. It returns
// ErrRateLimited on a hit and nil in every other case, including when no
// identity could be derived or the schema lacks the tracking columns.
func (l *RateLimiter) Admit(identity string) error {
	if identity == "" {
		// An unidentifiable client cannot be rate-limited.
		log.Warn("Report submitted without derivable identity, admitting")
		return nil
	}

	since := l.now().Add(-l.window)

	prior, err := l.store.FindRecentByField(FingerprintColumn, identity, since)
	if errors.Is(err, ErrUnknownField) {
		prior, err = l.store.FindRecentByField(ClientIPColumn, identity, since)
		if errors.Is(err, ErrUnknownField) {
			log.Warn("No identity columns in reports schema, skipping rate limit check")
			return nil
		}
	}
	if err != nil {
		// A storage hiccup must never turn into a hard failure of the
		// public submission path.
		log.Errorf("Rate limit check failed, admitting: %v", err)
		return nil
	}

	if prior != nil {
		return fmt.Errorf("%w: please wait %s between reports", ErrRateLimited, l.window)
	}
	return nil
}

// GormReportStore adapts a gorm handle to RecentReportFinder, translating
// the driver's undefined-column condition into ErrUnknownField.
type GormReportStore struct {
	db *gorm.DB
}

func NewGormReportStore(db *gorm.DB) *GormReportStore {
	return &GormReportStore{db: db}
}

func (s *GormReportStore) FindRecentByField(field, value string, since time.Time) (*models.Report, error) {
	// field is always one of the package constants above, never client input.
	var r models.Report
	err := s.db.
		Where(field+" = ?", value).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if IsUnknownColumn(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return nil, err
	}
	return &r, nil
}

// IsUnknownColumn recognizes postgres SQLSTATE 42703 (undefined_column).
func IsUnknownColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42703"
	}
	// Some pooled drivers flatten the error into text.
	return strings.Contains(err.Error(), "SQLSTATE 42703")
}
