package validation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/personal-blog-api/internal/models"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Errors maps a field name to its validation messages
type Errors map[string][]string

// Add records a message for field
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Empty reports whether no field failed
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// First returns the first message recorded for field, or ""
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Constraint is a single validator tag paired with the message shown when it fails
type Constraint struct {
	Tag     string
	Message string
}

// FieldRule lists the constraints for one input field. Optional fields are
// skipped entirely when blank.
type FieldRule struct {
	Field       string
	Optional    bool
	Constraints []Constraint
}

// Ruleset is the typed validation configuration for one operation
type Ruleset []FieldRule

// Validator runs rulesets through go-playground/validator
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a new validator instance with the custom "slug" tag registered
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	})
	return &Validator{v: v}
}

// Check validates values against rules. Values are expected to be trimmed.
// Each field reports at most its first failing constraint.
func (v *Validator) Check(rules Ruleset, values map[string]string) Errors {
	errs := Errors{}
	for _, rule := range rules {
		value := values[rule.Field]
		if rule.Optional && value == "" {
			continue
		}
		for _, c := range rule.Constraints {
			if err := v.v.Var(value, c.Tag); err != nil {
				errs.Add(rule.Field, c.Message)
				break
			}
		}
	}
	return errs
}

// IsSlug reports whether s is lowercase kebab-case
func IsSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// PostRules validates post create and update input
var PostRules = Ruleset{
	{Field: "title", Constraints: []Constraint{
		{Tag: "required", Message: "Post title is required."},
		{Tag: "max=255", Message: "Post title may not be greater than 255 characters."},
	}},
	{Field: "slug", Optional: true, Constraints: []Constraint{
		{Tag: "max=255", Message: "Slug may not be greater than 255 characters."},
		{Tag: "slug", Message: "Slug must be kebab-case (lowercase letters, numbers, hyphens)."},
	}},
	{Field: "excerpt", Constraints: []Constraint{
		{Tag: "required", Message: "Post excerpt is required for SEO."},
		{Tag: "max=500", Message: "Post excerpt may not be greater than 500 characters."},
	}},
	{Field: "content", Constraints: []Constraint{
		{Tag: "required", Message: "Post content is required."},
	}},
	{Field: "meta_title", Optional: true, Constraints: []Constraint{
		{Tag: "max=60", Message: "SEO title should not exceed 60 characters for optimal search results."},
	}},
	{Field: "meta_description", Optional: true, Constraints: []Constraint{
		{Tag: "max=160", Message: "SEO description should not exceed 160 characters for optimal search results."},
	}},
	{Field: "featured_image", Optional: true, Constraints: []Constraint{
		{Tag: "max=255", Message: "Featured image may not be greater than 255 characters."},
	}},
	{Field: "status", Constraints: []Constraint{
		{Tag: "required", Message: "Post status is required."},
		{Tag: "oneof=draft published archived", Message: "Post status must be draft, published, or archived."},
	}},
}

// CommentRules validates public comment submissions
var CommentRules = Ruleset{
	{Field: "author_name", Constraints: []Constraint{
		{Tag: "required", Message: "Your name is required."},
		{Tag: "max=100", Message: "Your name may not be greater than 100 characters."},
	}},
	{Field: "author_email", Constraints: []Constraint{
		{Tag: "required", Message: "Your email is required."},
		{Tag: "email", Message: "Please provide a valid email address."},
		{Tag: "max=255", Message: "Your email may not be greater than 255 characters."},
	}},
	{Field: "author_website", Optional: true, Constraints: []Constraint{
		{Tag: "http_url", Message: "Please provide a valid website URL."},
		{Tag: "max=255", Message: "Your website may not be greater than 255 characters."},
	}},
	{Field: "content", Constraints: []Constraint{
		{Tag: "required", Message: "Comment content is required."},
		{Tag: "max=1000", Message: "Comment cannot exceed 1000 characters."},
	}},
}

// ModerationRules validates an admin status change
var ModerationRules = Ruleset{
	{Field: "status", Constraints: []Constraint{
		{Tag: "required", Message: "The status field is required."},
		{Tag: "oneof=approved rejected spam pending", Message: "The selected status is invalid."},
	}},
}

// LoginRules validates admin login input
var LoginRules = Ruleset{
	{Field: "email", Constraints: []Constraint{
		{Tag: "required", Message: "The email field is required."},
		{Tag: "email", Message: "Please provide a valid email address."},
	}},
	{Field: "password", Constraints: []Constraint{
		{Tag: "required", Message: "The password field is required."},
	}},
}

// AdminRules validates a new administrator account
var AdminRules = Ruleset{
	{Field: "name", Constraints: []Constraint{
		{Tag: "required", Message: "The name field is required."},
		{Tag: "max=255", Message: "The name may not be greater than 255 characters."},
	}},
	{Field: "email", Constraints: []Constraint{
		{Tag: "required", Message: "The email field is required."},
		{Tag: "email", Message: "Please provide a valid email address."},
		{Tag: "max=255", Message: "The email may not be greater than 255 characters."},
	}},
	{Field: "password", Constraints: []Constraint{
		{Tag: "required", Message: "The password field is required."},
		{Tag: "min=8", Message: "The password must be at least 8 characters."},
		{Tag: "max=72", Message: "The password may not be greater than 72 characters."},
	}},
}

// PostValues flattens post input for Check
func PostValues(in *models.PostInput) map[string]string {
	return map[string]string{
		"title":            in.Title,
		"slug":             in.Slug,
		"excerpt":          in.Excerpt,
		"content":          in.Content,
		"meta_title":       in.MetaTitle,
		"meta_description": in.MetaDescription,
		"featured_image":   in.FeaturedImage,
		"status":           in.Status,
	}
}

// CommentValues flattens comment input for Check. Status is deliberately absent.
func CommentValues(in *models.CommentInput) map[string]string {
	return map[string]string{
		"author_name":    in.AuthorName,
		"author_email":   in.AuthorEmail,
		"author_website": in.AuthorWebsite,
		"content":        in.Content,
	}
}

// TrimPost trims surrounding whitespace from every text field in place
func TrimPost(in *models.PostInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	in.MetaTitle = strings.TrimSpace(in.MetaTitle)
	in.MetaDescription = strings.TrimSpace(in.MetaDescription)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	in.Status = strings.TrimSpace(in.Status)
}

// TrimComment trims surrounding whitespace from every text field in place
func TrimComment(in *models.CommentInput) {
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.AuthorEmail = strings.TrimSpace(in.AuthorEmail)
	in.AuthorWebsite = strings.TrimSpace(in.AuthorWebsite)
	in.Content = strings.TrimSpace(in.Content)
}
