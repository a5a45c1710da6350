package model

// User is a campus account as the backend reports it.
type User struct {
	ID              string   `json:"id"`
	StudentID       string   `json:"student_id"`
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	PhoneNumber     string   `json:"phone_number,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Department      string   `json:"department,omitempty"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`
	ProfilePicture  string   `json:"profile_picture,omitempty"`
	IsVerified      bool     `json:"is_verified"`
	IsBlocked       bool     `json:"is_blocked"`
	IsAdmin         bool     `json:"is_admin"`
	Rating          *float64 `json:"rating,omitempty"`
	TotalReviews    int      `json:"total_reviews"`
	TotalListings   int      `json:"total_listings"`
	ActiveSales     int      `json:"active_sales"`
	TotalSold       int      `json:"total_sold"`
}

// AvatarURL returns whichever profile image field the backend filled in.
func (u User) AvatarURL() string {
	if u.ProfileImageURL != "" {
		return u.ProfileImageURL
	}
	return u.ProfilePicture
}

// ProfileUpdate is the editable subset of a profile.
type ProfileUpdate struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Bio         string `json:"bio"`
}

// Signup is the registration payload.
type Signup struct {
	StudentID  string `json:"student_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Password   string `json:"password"`
}

// NewUser is the admin user-creation payload.
type NewUser struct {
	StudentID  string `json:"student_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Password   string `json:"password"`
}

// Review is feedback left for a user.
type Review struct {
	ID           string    `json:"id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    Timestamp `json:"created_at"`
}

// NewReview is the review submission payload.
type NewReview struct {
	ReviewedUserID string `json:"reviewed_user_id"`
	ItemID         string `json:"item_id,omitempty"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
}

// Favorite is a saved listing.
type Favorite struct {
	ID       string   `json:"id"`
	ItemID   string   `json:"item_id"`
	ItemType ItemKind `json:"item_type"`
	Title    string   `json:"title"`
	Price    float64  `json:"price"`
	ImageURL string   `json:"image_url,omitempty"`
}
