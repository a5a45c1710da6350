package view

import (
	"github.com/erazemk/unifind/internal/model"
)

// Badge is a status label with its CSS class and optional icon.
type Badge struct {
	Text  string
	Class string
	Icon  string
}

// MarketplaceBadge styles a marketplace status. Anything but Available is
// shown as sold.
func MarketplaceBadge(s model.MarketplaceStatus) Badge {
	switch s {
	case model.StatusAvailable:
		return Badge{Text: string(s), Class: "status-available"}
	default:
		return Badge{Text: string(s), Class: "status-sold"}
	}
}

// LostFoundTypeBadge styles the Lost/Found type.
func LostFoundTypeBadge(t model.LostFoundType) Badge {
	switch t {
	case model.TypeLost:
		return Badge{Text: string(t), Class: "status-lost", Icon: "fa-exclamation-circle"}
	default:
		return Badge{Text: string(t), Class: "status-found", Icon: "fa-check-circle"}
	}
}

// LostFoundStatusBadge styles the resolution status; active posts reuse
// the type colour.
func LostFoundStatusBadge(item model.LostFoundItem) Badge {
	if item.Status == model.StatusResolved {
		return Badge{Text: string(item.Status), Class: "status-resolved"}
	}
	return Badge{Text: string(item.Status), Class: LostFoundTypeBadge(item.Type).Class}
}

// UserBadge styles the account state.
func UserBadge(u model.User) Badge {
	if u.IsBlocked {
		return Badge{Text: "Blocked", Class: "status-blocked"}
	}
	return Badge{Text: "Active", Class: "status-active"}
}

// MarketplaceListingClass is the profile card class for a marketplace
// status. Unknown statuses render as sold.
func MarketplaceListingClass(s model.MarketplaceStatus) string {
	switch s {
	case model.StatusAvailable:
		return "available"
	case model.StatusSold:
		return "sold"
	default:
		return "sold"
	}
}

// LostFoundListingClass is the profile card class for a lost-and-found
// status. Unknown statuses render as active.
func LostFoundListingClass(s model.LostFoundStatus) string {
	switch s {
	case model.StatusActive:
		return "active"
	case model.StatusResolved:
		return "resolved"
	default:
		return "active"
	}
}

// ActionStyle is the icon and colour of an activity log entry.
type ActionStyle struct {
	Icon  string
	Class string
}

var actionStyles = [...]ActionStyle{
	model.ActionUnknown:         {Icon: "fa-info-circle", Class: "log-icon-default"},
	model.ActionUserBlock:       {Icon: "fa-ban", Class: "log-icon-danger"},
	model.ActionUserUnblock:     {Icon: "fa-check", Class: "log-icon-success"},
	model.ActionItemDelete:      {Icon: "fa-trash", Class: "log-icon-danger"},
	model.ActionReportResolve:   {Icon: "fa-check-circle", Class: "log-icon-success"},
	model.ActionUserVerify:      {Icon: "fa-certificate", Class: "log-icon-primary"},
	model.ActionDuplicateRemove: {Icon: "fa-clone", Class: "log-icon-warning"},
}

// Every action kind needs exactly one style.
var (
	_ [len(actionStyles) - model.NumActionKinds]struct{}
	_ [model.NumActionKinds - len(actionStyles)]struct{}
)

// StyleFor returns the style of an action kind.
func StyleFor(k model.ActionKind) ActionStyle {
	if k < 0 || int(k) >= len(actionStyles) {
		return actionStyles[model.ActionUnknown]
	}
	return actionStyles[k]
}
