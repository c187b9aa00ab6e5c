package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Firstname    string    `json:"firstname"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Massage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes
	Price       float64   `json:"price"`
	Position    int       `json:"position"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TimeSlot struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Bookings  []Booking `json:"bookings,omitempty"`
}

type Booking struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	MassageID  string        `json:"massageId"`
	TimeSlotID string        `json:"timeSlotId"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`

	// denormalized for display, filled on reads that join
	User     *User     `json:"user,omitempty"`
	Massage  *Massage  `json:"massage,omitempty"`
	TimeSlot *TimeSlot `json:"timeSlot,omitempty"`
}

// BookingDetails is the denormalized bundle handed to the mailer.
type BookingDetails struct {
	ClientFirstname string
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	MassageName     string
	MassageDuration int
	MassagePrice    float64
	StartTime       time.Time
	EndTime         time.Time
	Notes           string
}
