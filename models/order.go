package models

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentCash         = "cash"
	PaymentInstapay     = "instapay"
	PaymentVodafoneCash = "vodafonecash"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentInstapay || m == PaymentVodafoneCash
}

// ValidOrderStatus reports whether s is a known status. Transitions are
// deliberately unguarded: any status may be set from any other.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid || s == PaymentStatusFailed
}

// OrderItem mirrors CartItem but is a receipt line: immutable once the
// order is persisted.
type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductType ProductType        `bson:"productType" json:"productType"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Image       string             `bson:"image,omitempty" json:"image"`
}

type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber   string              `bson:"orderNumber" json:"orderNumber"`
	Name          string              `bson:"name" json:"name"`
	Phone         string              `bson:"phone" json:"phone"`
	Email         string              `bson:"email,omitempty" json:"email,omitempty"`
	Address       string              `bson:"address" json:"address"`
	Items         []OrderItem         `bson:"items" json:"items"`
	TotalAmount   float64             `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod string              `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string              `bson:"paymentStatus" json:"paymentStatus"`
	Status        string              `bson:"status" json:"status"`
	UserID        *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewOrderNumber builds ORD-<8-digit-timestamp-suffix>-<3-digit-random>.
// Collisions are possible; the order store's unique index plus the
// service's retry loop handle them.
func NewOrderNumber() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := ms[len(ms)-8:]
	return fmt.Sprintf("ORD-%s-%03d", suffix, rand.Intn(1000))
}

var (
	phoneRegex = regexp.MustCompile(`^01[0-9]{9}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizePhone strips spaces and hyphens before validation/storage.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	return strings.ReplaceAll(phone, "-", "")
}

// ValidPhone accepts Egyptian mobile numbers: 01 followed by nine digits.
func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
