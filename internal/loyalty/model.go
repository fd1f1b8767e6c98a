package loyalty

import "time"

type VideoStatus string

const (
	VideoPending  VideoStatus = "pending"
	VideoApproved VideoStatus = "approved"
	VideoRejected VideoStatus = "rejected"
)

func VideoStatuses() []VideoStatus {
	return []VideoStatus{VideoPending, VideoApproved, VideoRejected}
}

func (s VideoStatus) Valid() bool {
	switch s {
	case VideoPending, VideoApproved, VideoRejected:
		return true
	}
	return false
}

// Platforms lists the social networks a video review may be posted on.
func Platforms() []string {
	return []string{"youtube", "instagram", "tiktok", "facebook", "twitter", "other"}
}

func ValidPlatform(p string) bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// VideoReview is a loyalty submission: a link to a product video the
// customer posted on social media, reviewed and approved by staff.
type VideoReview struct {
	ID          uint        `json:"id"`
	UserID      uint        `json:"user_id"`
	Username    string      `json:"username,omitempty"`
	VideoURL    string      `json:"video_url"`
	Description *string     `json:"description,omitempty"`
	Platform    string      `json:"platform"`
	Status      VideoStatus `json:"status"`
	AdminNotes  *string     `json:"admin_notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

type NewVideoReview struct {
	VideoURL    string  `json:"video_url"`
	Description *string `json:"description,omitempty"`
	Platform    string  `json:"platform"`
}

type UpdateVideoReview struct {
	VideoURL    *string `json:"video_url,omitempty"`
	Description *string `json:"description,omitempty"`
	Platform    *string `json:"platform,omitempty"`
}

type VideoReviewFilter struct {
	Status *VideoStatus
	UserID *uint
	Limit  int32
	Offset int32
}

// Coupon is a personal discount code issued to a user, typically as a
// reward for an approved video review.
type Coupon struct {
	ID                 uint       `json:"id"`
	Code               string     `json:"code"`
	UserID             uint       `json:"user_id"`
	DiscountPercentage int        `json:"discount_percentage"`
	MaxUses            int        `json:"max_uses"`
	UsedCount          int        `json:"used_count"`
	IsActive           bool       `json:"is_active"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	CreatedByAdmin     *uint      `json:"created_by_admin,omitempty"`
}

type NewCoupon struct {
	UserEmail          string     `json:"user_email"`
	DiscountPercentage int        `json:"discount_percentage"`
	MaxUses            int        `json:"max_uses"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
}

// CouponUsage records one redemption of a coupon against an order.
type CouponUsage struct {
	ID             uint      `json:"id"`
	CouponID       uint      `json:"coupon_id"`
	OrderID        uint      `json:"order_id"`
	DiscountAmount float64   `json:"discount_amount"`
	UsedAt         time.Time `json:"used_at"`
}
