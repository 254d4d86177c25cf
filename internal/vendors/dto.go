package vendors

import (
	"regexp"
	"strings"

	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
)

var (
	gstPattern    = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)
	mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// RegisterInput is the vendor onboarding form.
type RegisterInput struct {
	Name         string `json:"name"`
	GSTNumber    string `json:"gstNumber"`
	MobileNumber string `json:"mobileNumber"`
}

// OtpIssued acknowledges a code request. DevCode is only set in development
// when code echo is enabled.
type OtpIssued struct {
	MobileNumber string  `json:"mobileNumber"`
	ExpiresAt    int64   `json:"expiresAt"`
	DevCode      *string `json:"devCode,omitempty"`
}

func (in RegisterInput) normalized() RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.GSTNumber = NormalizeGST(in.GSTNumber)
	in.MobileNumber = NormalizeMobile(in.MobileNumber)
	return in
}

func (in RegisterInput) validate() error {
	details := map[string]string{}
	if in.Name == "" {
		details["name"] = "required"
	}
	if !ValidGST(in.GSTNumber) {
		details["gstNumber"] = "must be a 15 character GSTIN"
	}
	if !ValidMobile(in.MobileNumber) {
		details["mobileNumber"] = "must be a 10 digit Indian mobile number"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid vendor registration").WithDetails(details)
	}
	return nil
}

func NormalizeGST(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func NormalizeMobile(v string) string {
	return strings.TrimSpace(v)
}

// ValidGST reports whether v is a structurally valid GSTIN.
func ValidGST(v string) bool {
	return gstPattern.MatchString(v)
}

func ValidMobile(v string) bool {
	return mobilePattern.MatchString(v)
}

// ValidCode reports whether v has the shape of an issued code.
func ValidCode(v string, length int) bool {
	return len(v) == length && digitsPattern.MatchString(v)
}

func validateMobile(mobile string) error {
	if !ValidMobile(mobile) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid mobile number").
			WithDetails(map[string]string{"mobileNumber": "must be a 10 digit Indian mobile number"})
	}
	return nil
}
