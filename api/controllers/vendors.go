package controllers

import (
	"context"
	"net/http"

	"github.com/caffeinepub/sajavathub-com-sub000/internal/vendors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

type mobileArgs struct {
	MobileNumber string `json:"mobileNumber" validate:"required,mobile_in"`
}

type verifyOtpArgs struct {
	MobileNumber string `json:"mobileNumber" validate:"required,mobile_in"`
	OTP          string `json:"otp" validate:"required,otp"`
}

type registerVendorArgs struct {
	Name         string `json:"name" validate:"required"`
	GSTNumber    string `json:"gstNumber" validate:"required,gstin"`
	MobileNumber string `json:"mobileNumber" validate:"required,mobile_in"`
}

type gstArgs struct {
	GSTNumber string `json:"gstNumber" validate:"required"`
}

// RequestOtp issues a fresh challenge for the mobile number. The code itself
// leaves through the SMS topic, never in the response outside dev echo.
func RequestOtp(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *mobileArgs) (*vendors.OtpIssued, error) {
		return svc.RequestOtp(ctx, args.MobileNumber)
	})
}

func VerifyOtp(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *verifyOtpArgs) (bool, error) {
		return svc.VerifyOtp(ctx, args.MobileNumber, args.OTP)
	})
}

func RegisterVendor(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *registerVendorArgs) (*models.Vendor, error) {
		return svc.RegisterVendor(ctx, vendors.RegisterInput{
			Name:         args.Name,
			GSTNumber:    args.GSTNumber,
			MobileNumber: args.MobileNumber,
		})
	})
}

func GetVendors(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, _ *noArgs) ([]models.Vendor, error) {
		return svc.GetVendors(ctx, caller)
	})
}

func GetVendorByGstNumber(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *gstArgs) (*models.Vendor, error) {
		return svc.GetVendorByGstNumber(ctx, caller, args.GSTNumber)
	})
}

func GetVendorByMobileNumber(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, caller string, args *mobileArgs) (*models.Vendor, error) {
		return svc.GetVendorByMobileNumber(ctx, caller, args.MobileNumber)
	})
}
