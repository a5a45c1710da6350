package model

// ReportStatus is the moderation state of a report.
type ReportStatus string

// Report statuses.
const (
	ReportPending   ReportStatus = "Pending"
	ReportDismissed ReportStatus = "Dismissed"
	ReportResolved  ReportStatus = "Resolved"
)

// Report is a user complaint about another user or an item.
type Report struct {
	ID                string       `json:"id"`
	Reason            string       `json:"reason"`
	Description       string       `json:"description,omitempty"`
	ReporterName      string       `json:"reporter_name"`
	ReporterEmail     string       `json:"reporter_email"`
	ReportedUserID    string       `json:"reported_user_id,omitempty"`
	ReportedUserName  string       `json:"reported_user_name,omitempty"`
	ReportedUserEmail string       `json:"reported_user_email,omitempty"`
	ReportedItemID    string       `json:"reported_item_id,omitempty"`
	ItemTitle         string       `json:"item_title,omitempty"`
	ItemType          ItemKind     `json:"item_type,omitempty"`
	Status            ReportStatus `json:"status"`
	CreatedAt         Timestamp    `json:"created_at"`
}

// NewReport is the payload a user submits to flag a user or an item.
type NewReport struct {
	Reason         string   `json:"reason"`
	Description    string   `json:"description,omitempty"`
	ReportedUserID string   `json:"reported_user_id,omitempty"`
	ReportedItemID string   `json:"reported_item_id,omitempty"`
	ItemType       ItemKind `json:"item_type,omitempty"`
}

// ReportReasons offered by the report form.
var ReportReasons = []string{
	"Spam",
	"Scam or fraud",
	"Inappropriate content",
	"Duplicate listing",
	"Harassment",
	"Other",
}

// Stats are the admin dashboard aggregates.
type Stats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalListings     int `json:"totalListings"`
	PendingReports    int `json:"pendingReports"`
	BlockedUsers      int `json:"blockedUsers"`
	ActiveMarketplace int `json:"activeMarketplace"`
	ActiveLostFound   int `json:"activeLostFound"`
}
