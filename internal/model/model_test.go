package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in    string
		want  time.Time
		valid bool
	}{
		{"2026-10-18T09:30:00Z", time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC), true},
		{"2026-10-18T09:30:00.123Z", time.Date(2026, 10, 18, 9, 30, 0, 123000000, time.UTC), true},
		{"2026-10-18 09:30:00", time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC), true},
		{"2026-10-18", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if got.Valid() != tt.valid {
			t.Errorf("ParseTimestamp(%q).Valid() = %v, want %v", tt.in, got.Valid(), tt.valid)
		}
		if !got.Time.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got.Time, tt.want)
		}
	}

	if _, err := ParseTimestamp("yesterday-ish"); err == nil {
		t.Error("expected error for garbage timestamp")
	}
}

func TestTimestampJSONTolerant(t *testing.T) {
	var item MarketplaceItem
	data := `{"id":"a1","title":"Desk","price":1500,"posted_date":null,"created_at":"not a date"}`
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if item.PostedAt().Valid() {
		t.Error("expected invalid posted-at when both dates are unusable")
	}
}

func TestPostedAtFallsBackToCreatedAt(t *testing.T) {
	created := NewTimestamp(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	item := LostFoundItem{CreatedAt: created}
	if !item.PostedAt().Equal(created.Time) {
		t.Errorf("expected created_at fallback, got %v", item.PostedAt())
	}

	posted := NewTimestamp(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	item.PostedDate = posted
	if !item.PostedAt().Equal(posted.Time) {
		t.Errorf("expected posted_date, got %v", item.PostedAt())
	}
}

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		in   string
		want ActionKind
	}{
		{"user_block", ActionUserBlock},
		{"user_unblock", ActionUserUnblock},
		{"item_delete", ActionItemDelete},
		{"report_resolve", ActionReportResolve},
		{"user_verify", ActionUserVerify},
		{"duplicate_remove", ActionDuplicateRemove},
		{"unknown", ActionUnknown},
		{"password_reset", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		if got := ParseActionKind(tt.in); got != tt.want {
			t.Errorf("ParseActionKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestActivityEntryDecodesUnknownKind(t *testing.T) {
	var entries []ActivityLogEntry
	data := `[{"admin_name":"root","action_type":"user_verify"},{"admin_name":"root","action_type":"made_up"}]`
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if entries[0].ActionType != ActionUserVerify {
		t.Errorf("expected user_verify, got %v", entries[0].ActionType)
	}
	if entries[1].ActionType != ActionUnknown {
		t.Errorf("expected unknown, got %v", entries[1].ActionType)
	}
}

func TestAvatarURL(t *testing.T) {
	u := User{ProfilePicture: "/p.png"}
	if u.AvatarURL() != "/p.png" {
		t.Errorf("expected profile_picture fallback, got %q", u.AvatarURL())
	}
	u.ProfileImageURL = "/i.png"
	if u.AvatarURL() != "/i.png" {
		t.Errorf("expected profile_image_url, got %q", u.AvatarURL())
	}
}

func TestParseItemKind(t *testing.T) {
	if k, ok := ParseItemKind("marketplace"); !ok || k != KindMarketplace {
		t.Errorf("marketplace: got %q %v", k, ok)
	}
	if k, ok := ParseItemKind("lost-found"); !ok || k != KindLostFound {
		t.Errorf("lost-found: got %q %v", k, ok)
	}
	if _, ok := ParseItemKind("owners"); ok {
		t.Error("expected unknown kind to be rejected")
	}
}
