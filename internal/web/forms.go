package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/unifind/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.Categories, fl.Field().String())
	})
	_ = v.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.Conditions, fl.Field().String())
	})
	return v
}

// check validates a form and returns the first problem as a user-facing
// message, or "" when the form is valid.
func check(form any) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form and try again."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return "Please enter a valid email address."
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be negative.", fe.Field())
	case "eqfield":
		return "Passwords do not match."
	case "datetime":
		return fmt.Sprintf("%s must be a date.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

type loginForm struct {
	Email    string `label:"Email" validate:"required,email"`
	Password string `label:"Password" validate:"required"`
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    field(r, "email"),
		Password: r.PostFormValue("password"),
	}
}

type signupForm struct {
	StudentID  string `label:"Student ID" validate:"required,max=32"`
	FullName   string `label:"Full name" validate:"required,max=100"`
	Email      string `label:"Email" validate:"required,email"`
	Department string `label:"Department" validate:"max=100"`
	Password   string `label:"Password" validate:"required,min=6"`
	Confirm    string `label:"Password confirmation" validate:"eqfield=Password"`
}

func parseSignupForm(r *http.Request) signupForm {
	return signupForm{
		StudentID:  field(r, "student_id"),
		FullName:   field(r, "full_name"),
		Email:      field(r, "email"),
		Department: field(r, "department"),
		Password:   r.PostFormValue("password"),
		Confirm:    r.PostFormValue("confirm_password"),
	}
}

func (f signupForm) payload() model.Signup {
	return model.Signup{
		StudentID:  f.StudentID,
		FullName:   f.FullName,
		Email:      f.Email,
		Department: f.Department,
		Password:   f.Password,
	}
}

type marketplaceForm struct {
	Title         string  `label:"Title" validate:"required,max=120"`
	Description   string  `label:"Description" validate:"required,max=2000"`
	PriceText     string  `label:"Price" validate:"required"`
	Price         float64 `label:"Price" validate:"gte=0"`
	Category      string  `label:"Category" validate:"required,category"`
	Condition     string  `label:"Condition" validate:"required,condition"`
	SellerName    string  `label:"Your name" validate:"required,max=100"`
	SellerContact string  `label:"Contact" validate:"required,max=100"`
	ImageURL      string  `label:"Image URL" validate:"omitempty,url"`
}

func parseMarketplaceForm(r *http.Request) (marketplaceForm, string) {
	f := marketplaceForm{
		Title:         field(r, "title"),
		Description:   field(r, "description"),
		PriceText:     field(r, "price"),
		Category:      field(r, "category"),
		Condition:     field(r, "condition"),
		SellerName:    field(r, "seller_name"),
		SellerContact: field(r, "seller_contact"),
		ImageURL:      field(r, "image_url"),
	}
	if f.PriceText != "" {
		p, err := strconv.ParseFloat(f.PriceText, 64)
		if err != nil {
			return f, "Price must be a number."
		}
		f.Price = p
	}
	return f, check(f)
}

func (f marketplaceForm) item(now time.Time) model.MarketplaceItem {
	return model.MarketplaceItem{
		Title:         f.Title,
		Description:   f.Description,
		Price:         f.Price,
		Category:      f.Category,
		Condition:     f.Condition,
		SellerName:    f.SellerName,
		SellerContact: f.SellerContact,
		ImageURL:      f.ImageURL,
		Status:        model.StatusAvailable,
		PostedDate:    model.NewTimestamp(now),
	}
}

type lostFoundForm struct {
	Title       string `label:"Title" validate:"required,max=120"`
	Description string `label:"Description" validate:"required,max=2000"`
	Type        string `label:"Type" validate:"required,oneof=Lost Found"`
	Category    string `label:"Category" validate:"required,category"`
	Location    string `label:"Location" validate:"required,max=200"`
	Date        string `label:"Date" validate:"required,datetime=2006-01-02"`
	ContactName string `label:"Your name" validate:"required,max=100"`
	ContactInfo string `label:"Contact" validate:"required,max=100"`
	ImageURL    string `label:"Image URL" validate:"omitempty,url"`
}

func parseLostFoundForm(r *http.Request) (lostFoundForm, string) {
	f := lostFoundForm{
		Title:       field(r, "title"),
		Description: field(r, "description"),
		Type:        field(r, "type"),
		Category:    field(r, "category"),
		Location:    field(r, "location"),
		Date:        field(r, "date"),
		ContactName: field(r, "contact_name"),
		ContactInfo: field(r, "contact_info"),
		ImageURL:    field(r, "image_url"),
	}
	return f, check(f)
}

func (f lostFoundForm) item(now time.Time) model.LostFoundItem {
	date, _ := model.ParseTimestamp(f.Date)
	return model.LostFoundItem{
		Title:       f.Title,
		Description: f.Description,
		Type:        model.LostFoundType(f.Type),
		Category:    f.Category,
		Location:    f.Location,
		Date:        date,
		ContactName: f.ContactName,
		ContactInfo: f.ContactInfo,
		ImageURL:    f.ImageURL,
		Status:      model.StatusActive,
		PostedDate:  model.NewTimestamp(now),
	}
}

type profileForm struct {
	FullName    string `label:"Full name" validate:"required,max=100"`
	PhoneNumber string `label:"Phone number" validate:"max=32"`
	Bio         string `label:"Bio" validate:"max=500"`
}

func parseProfileForm(r *http.Request) (profileForm, string) {
	f := profileForm{
		FullName:    field(r, "full_name"),
		PhoneNumber: field(r, "phone_number"),
		Bio:         field(r, "bio"),
	}
	return f, check(f)
}

func (f profileForm) update() model.ProfileUpdate {
	return model.ProfileUpdate{FullName: f.FullName, PhoneNumber: f.PhoneNumber, Bio: f.Bio}
}

type passwordForm struct {
	Current string `label:"Current password" validate:"required"`
	New     string `label:"New password" validate:"required,min=6"`
	Confirm string `label:"Password confirmation" validate:"eqfield=New"`
}

func parsePasswordForm(r *http.Request) (passwordForm, string) {
	f := passwordForm{
		Current: r.PostFormValue("current_password"),
		New:     r.PostFormValue("new_password"),
		Confirm: r.PostFormValue("confirm_password"),
	}
	return f, check(f)
}

type reportForm struct {
	Reason         string `label:"Reason" validate:"required,max=100"`
	Description    string `label:"Description" validate:"max=2000"`
	ReportedUserID string `label:"Reported user" validate:"required_without=ReportedItemID"`
	ReportedItemID string `label:"Reported item"`
	ItemType       string `label:"Item type" validate:"required_with=ReportedItemID,omitempty,oneof=marketplace lost-found"`
}

func parseReportForm(r *http.Request) (reportForm, string) {
	f := reportForm{
		Reason:         field(r, "reason"),
		Description:    field(r, "description"),
		ReportedUserID: field(r, "user_id"),
		ReportedItemID: field(r, "item_id"),
		ItemType:       field(r, "item_type"),
	}
	return f, check(f)
}

func (f reportForm) payload() model.NewReport {
	return model.NewReport{
		Reason:         f.Reason,
		Description:    f.Description,
		ReportedUserID: f.ReportedUserID,
		ReportedItemID: f.ReportedItemID,
		ItemType:       model.ItemKind(f.ItemType),
	}
}

type reviewForm struct {
	ReviewedUserID string `label:"Reviewed user" validate:"required"`
	Rating         int    `label:"Rating" validate:"min=1,max=5"`
	Comment        string `label:"Comment" validate:"max=1000"`
}

func parseReviewForm(r *http.Request) (reviewForm, string) {
	f := reviewForm{
		ReviewedUserID: field(r, "user_id"),
		Comment:        field(r, "comment"),
	}
	rating, err := strconv.Atoi(field(r, "rating"))
	if err != nil {
		return f, "Please choose a rating."
	}
	f.Rating = rating
	return f, check(f)
}

type newUserForm struct {
	StudentID  string `label:"Student ID" validate:"required,max=32"`
	FullName   string `label:"Full name" validate:"required,max=100"`
	Email      string `label:"Email" validate:"required,email"`
	Department string `label:"Department" validate:"max=100"`
	Password   string `label:"Password" validate:"required,min=6"`
}

func parseNewUserForm(r *http.Request) (newUserForm, string) {
	f := newUserForm{
		StudentID:  field(r, "student_id"),
		FullName:   field(r, "full_name"),
		Email:      field(r, "email"),
		Department: field(r, "department"),
		Password:   r.PostFormValue("password"),
	}
	return f, check(f)
}

func (f newUserForm) payload() model.NewUser {
	return model.NewUser{
		StudentID:  f.StudentID,
		FullName:   f.FullName,
		Email:      f.Email,
		Department: f.Department,
		Password:   f.Password,
	}
}

type activityFilterForm struct {
	ActionType string `label:"Action" validate:"omitempty,max=50"`
	StartDate  string `label:"Start date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `label:"End date" validate:"omitempty,datetime=2006-01-02"`
}

func parseActivityFilterForm(r *http.Request) (activityFilterForm, string) {
	q := r.URL.Query()
	f := activityFilterForm{
		ActionType: strings.TrimSpace(q.Get("action_type")),
		StartDate:  strings.TrimSpace(q.Get("start_date")),
		EndDate:    strings.TrimSpace(q.Get("end_date")),
	}
	if f.ActionType == "all" {
		f.ActionType = ""
	}
	return f, check(f)
}

func (f activityFilterForm) values() map[string]string {
	return map[string]string{
		"action_type": f.ActionType,
		"start_date":  f.StartDate,
		"end_date":    f.EndDate,
	}
}
