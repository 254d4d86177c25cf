package vendors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox/payloads"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CodeGenerator produces the digits sent to the vendor.
type CodeGenerator func(length int) (string, error)

// Service drives OTP verification and vendor registration.
type Service interface {
	RequestOtp(ctx context.Context, mobileNumber string) (*OtpIssued, error)
	VerifyOtp(ctx context.Context, mobileNumber, code string) (bool, error)
	RegisterVendor(ctx context.Context, input RegisterInput) (*models.Vendor, error)

	GetVendors(ctx context.Context, caller string) ([]models.Vendor, error)
	GetVendorByGstNumber(ctx context.Context, caller, gstNumber string) (*models.Vendor, error)
	GetVendorByMobileNumber(ctx context.Context, caller, mobileNumber string) (*models.Vendor, error)
}

type Deps struct {
	Repo     *Repository
	Tx       txRunner
	Outbox   outbox.Emitter
	Authz    users.Authorizer
	Clock    clock.Clock
	OTP      config.OTPConfig
	EchoCode bool
	Codes    CodeGenerator
	Metrics  *metrics.DomainMetrics
	Logger   *logger.Logger
}

type service struct {
	repo     *Repository
	tx       txRunner
	outbox   outbox.Emitter
	authz    users.Authorizer
	clock    clock.Clock
	otp      config.OTPConfig
	echoCode bool
	codes    CodeGenerator
	metrics  *metrics.DomainMetrics
	logg     *logger.Logger
}

func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("vendors repository required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Outbox == nil:
		return nil, fmt.Errorf("outbox emitter required")
	case deps.Authz == nil:
		return nil, fmt.Errorf("authorizer required")
	case deps.Clock == nil:
		return nil, fmt.Errorf("clock required")
	case deps.OTP.CodeLength <= 0:
		return nil, fmt.Errorf("otp code length must be positive")
	case deps.OTP.TTL <= 0:
		return nil, fmt.Errorf("otp ttl must be positive")
	}
	codes := deps.Codes
	if codes == nil {
		codes = security.GenerateNumericCode
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     deps.Repo,
		tx:       deps.Tx,
		outbox:   deps.Outbox,
		authz:    deps.Authz,
		clock:    deps.Clock,
		otp:      deps.OTP,
		echoCode: deps.EchoCode,
		codes:    codes,
		metrics:  deps.Metrics,
		logg:     logg,
	}, nil
}

func (s *service) RequestOtp(ctx context.Context, mobileNumber string) (*OtpIssued, error) {
	mobile := NormalizeMobile(mobileNumber)
	if err := validateMobile(mobile); err != nil {
		s.metrics.OTPRequested("invalid")
		return nil, err
	}

	code, err := s.codes(s.otp.CodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	hash, err := security.HashCode(code, s.otp)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash otp")
	}

	now := s.clock.Now()
	challenge := &models.OtpChallenge{
		MobileNumber: mobile,
		CodeHash:     hash,
		Status:       enums.OtpStatusPending,
		IssuedAt:     now,
		ExpiresAt:    now + int64(s.otp.TTL),
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpsertChallenge(ctx, challenge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp challenge")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOtpRequested,
			AggregateType: enums.AggregateOtpChallenge,
			AggregateID:   mobile,
			Data: payloads.OtpRequestedEvent{
				MobileNumber: mobile,
				Code:         code,
				ExpiresAt:    challenge.ExpiresAt,
			},
			OccurredAt: time.Unix(0, now).UTC(),
		})
	})
	if err != nil {
		s.metrics.OTPRequested("error")
		return nil, err
	}
	s.metrics.OTPRequested("issued")
	s.logg.Info(ctx, "otp issued")

	issued := &OtpIssued{MobileNumber: mobile, ExpiresAt: challenge.ExpiresAt}
	if s.echoCode {
		issued.DevCode = &code
	}
	return issued, nil
}

func (s *service) VerifyOtp(ctx context.Context, mobileNumber, code string) (bool, error) {
	mobile := NormalizeMobile(mobileNumber)
	if err := validateMobile(mobile); err != nil {
		return false, err
	}
	if !ValidCode(code, s.otp.CodeLength) {
		s.metrics.OTPVerified("malformed")
		return false, pkgerrors.New(pkgerrors.CodeValidation, "malformed otp").
			WithDetails(map[string]string{"otp": fmt.Sprintf("must be %d digits", s.otp.CodeLength)})
	}

	challenge, err := s.repo.FindChallenge(ctx, mobile)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load otp challenge")
	}
	if challenge == nil {
		s.metrics.OTPVerified("missing")
		return false, pkgerrors.New(pkgerrors.CodeConflict, "no otp requested for this number")
	}
	switch challenge.Status {
	case enums.OtpStatusVerified:
		s.metrics.OTPVerified("replayed")
		return false, pkgerrors.New(pkgerrors.CodeConflict, "otp already verified")
	case enums.OtpStatusConsumed:
		s.metrics.OTPVerified("replayed")
		return false, pkgerrors.New(pkgerrors.CodeConflict, "otp already used")
	}

	now := s.clock.Now()
	if now > challenge.ExpiresAt {
		if err := s.repo.DeleteChallenge(ctx, mobile, challenge.IssuedAt); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete expired otp")
		}
		s.metrics.OTPVerified("expired")
		return false, pkgerrors.New(pkgerrors.CodeConflict, "otp expired")
	}

	ok, err := security.VerifyCode(code, challenge.CodeHash)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify otp")
	}
	if !ok {
		s.metrics.OTPVerified("mismatch")
		return false, pkgerrors.New(pkgerrors.CodeConflict, "otp does not match")
	}

	updated, err := s.repo.MarkVerified(ctx, mobile, challenge.IssuedAt, now)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark otp verified")
	}
	if !updated {
		s.metrics.OTPVerified("superseded")
		return false, pkgerrors.New(pkgerrors.CodeConflict, "otp challenge changed, request a new code")
	}
	s.metrics.OTPVerified("verified")
	return true, nil
}

func (s *service) RegisterVendor(ctx context.Context, input RegisterInput) (*models.Vendor, error) {
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	vendor := &models.Vendor{
		ID:           uuid.NewString(),
		Name:         input.Name,
		GSTNumber:    input.GSTNumber,
		MobileNumber: input.MobileNumber,
		Verified:     true,
		CreatedAt:    s.clock.Now(),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		consumed, err := repo.ConsumeVerified(ctx, vendor.MobileNumber)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume otp verification")
		}
		if !consumed {
			return pkgerrors.New(pkgerrors.CodeConflict, "mobile number has not been verified")
		}
		if err := repo.CreateVendor(ctx, vendor); err != nil {
			return mapCreateError(err)
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventVendorRegistered,
			AggregateType: enums.AggregateVendor,
			AggregateID:   vendor.ID,
			Data: payloads.VendorRegisteredEvent{
				VendorID:     vendor.ID,
				Name:         vendor.Name,
				MobileNumber: vendor.MobileNumber,
				CreatedAt:    vendor.CreatedAt,
			},
			OccurredAt: time.Unix(0, vendor.CreatedAt).UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.VendorRegistered()
	s.logg.Info(s.logg.WithField(ctx, "vendor_id", vendor.ID), "vendor registered")
	return vendor, nil
}

func mapCreateError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "uq_vendors_gst_number"), db.IsUniqueViolation(err, "vendors.gst_number"):
		return pkgerrors.New(pkgerrors.CodeConflict, "gst number already registered").
			WithDetails(map[string]string{"field": "gstNumber"})
	case db.IsUniqueViolation(err, "uq_vendors_mobile_number"), db.IsUniqueViolation(err, "vendors.mobile_number"):
		return pkgerrors.New(pkgerrors.CodeConflict, "mobile number already registered").
			WithDetails(map[string]string{"field": "mobileNumber"})
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.New(pkgerrors.CodeConflict, "vendor already registered")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
}

func (s *service) GetVendors(ctx context.Context, caller string) ([]models.Vendor, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	if rows == nil {
		rows = []models.Vendor{}
	}
	return rows, nil
}

func (s *service) GetVendorByGstNumber(ctx context.Context, caller, gstNumber string) (*models.Vendor, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	return s.findVendor(ctx, "gst_number", NormalizeGST(gstNumber))
}

func (s *service) GetVendorByMobileNumber(ctx context.Context, caller, mobileNumber string) (*models.Vendor, error) {
	if err := users.RequireAdmin(ctx, s.authz, caller); err != nil {
		return nil, err
	}
	return s.findVendor(ctx, "mobile_number", NormalizeMobile(mobileNumber))
}

func (s *service) findVendor(ctx context.Context, column, value string) (*models.Vendor, error) {
	if value == "" {
		return nil, nil
	}
	row, err := s.repo.FindVendorBy(ctx, column, value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return row, nil
}
