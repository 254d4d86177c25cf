package enums

// OtpStatus is the state of the single live challenge held per mobile number.
// A missing row means no challenge is outstanding.
type OtpStatus string

const (
	// OtpStatusPending: code issued, awaiting verification.
	OtpStatusPending OtpStatus = "pending"
	// OtpStatusVerified: code matched; registration may proceed once.
	OtpStatusVerified OtpStatus = "verified"
	// OtpStatusConsumed: verification spent by a vendor registration.
	OtpStatusConsumed OtpStatus = "consumed"
)

func (s OtpStatus) String() string {
	return string(s)
}
