package otp

type RequestOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type VerifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Otp         string `json:"otp" binding:"required"`
}
