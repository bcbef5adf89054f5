package service

import "errors"

var (
	PasswordIncorrect = errors.New("password Incorrect")
	TokenIncorrect    = errors.New("token Incorrect")

	ErrPlanNotFound        = errors.New("plan not found")
	ErrPriceResolution     = errors.New("plan has no chargeable price")
	ErrPaymentStart        = errors.New("payment session could not be started")
	ErrSignatureInvalid    = errors.New("gateway signature invalid")
	ErrDuplicateInvitation = errors.New("invitation already materialized for order")
	ErrSlugTaken           = errors.New("slug taken")
	ErrSlugInvalid         = errors.New("slug invalid")
	ErrAlreadyLocked       = errors.New("field already locked")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrSectionOrderEmpty   = errors.New("section order is empty")
	ErrDateInvalid         = errors.New("date invalid")
)
