package domain

import (
	"github.com/chanotech/chanote-backend/internal/domain/deeds"
	"github.com/chanotech/chanote-backend/internal/domain/lending"
	"github.com/chanotech/chanote-backend/internal/domain/notify"
	"github.com/chanotech/chanote-backend/internal/domain/user"
)

const (
	RoleCustomer = user.RoleCustomer
	RoleAgent    = user.RoleAgent
	RoleAdmin    = user.RoleAdmin

	StatusDraft       = lending.StatusDraft
	StatusSubmitted   = lending.StatusSubmitted
	StatusUnderReview = lending.StatusUnderReview
	StatusApproved    = lending.StatusApproved
	StatusRejected    = lending.StatusRejected
	StatusDisbursed   = lending.StatusDisbursed
	StatusClosed      = lending.StatusClosed

	PaymentPending = lending.PaymentPending
	PaymentPaid    = lending.PaymentPaid
	PaymentLate    = lending.PaymentLate

	ChannelWebhook = notify.ChannelWebhook
	ChannelInApp   = notify.ChannelInApp

	DeliveryPending = notify.DeliveryPending
	DeliverySent    = notify.DeliverySent
	DeliveryFailed  = notify.DeliveryFailed

	ResolutionPending      = deeds.ResolutionPending
	ResolutionAutoResolved = deeds.ResolutionAutoResolved
	ResolutionNeedsReview  = deeds.ResolutionNeedsReview
	ResolutionConfirmed    = deeds.ResolutionConfirmed
	ResolutionFailed       = deeds.ResolutionFailed
)

type User = user.User
type UserToken = user.UserToken
type Role = user.Role

type LoanApplication = lending.LoanApplication
type ApplicationStatus = lending.ApplicationStatus
type Payment = lending.Payment
type PaymentStatus = lending.PaymentStatus
type Reward = lending.Reward

type TitleDeed = deeds.TitleDeed
type ResolutionStatus = deeds.ResolutionStatus

type Notification = notify.Notification
type NotificationChannel = notify.Channel
type DeliveryStatus = notify.DeliveryStatus
