package market

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/garnizeh/oppboard/pkg/models"
)

// DeadlineLayout is the datetime-local format used by listing forms.
const DeadlineLayout = "2006-01-02T15:04"

// UnknownOrganization is recorded when neither the form nor the provider
// profile names an organization.
const UnknownOrganization = "Unknown"

// Draft holds the raw values of a listing form. Every field is text; blank
// means absent.
type Draft struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	Deadline     string `json:"deadline"`
	Stipend      string `json:"stipend"`
	Eligibility  string `json:"eligibility"`
	Description  string `json:"description"`
	ApplyLink    string `json:"apply_link"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NormalizeDraft turns form values into a store input. fallbackOrg is the
// provider's organization name, used when the form leaves it blank.
func NormalizeDraft(d Draft, fallbackOrg string) (models.OpportunityInput, error) {
	in := models.OpportunityInput{
		Title:        d.Title,
		Organization: d.Organization,
		Type:         models.OpportunityType(strings.TrimSpace(d.Type)),
		Location:     optional(d.Location),
		Stipend:      optional(d.Stipend),
		Eligibility:  optional(d.Eligibility),
		Description:  d.Description,
		ApplyLink:    optional(d.ApplyLink),
	}

	if s := strings.TrimSpace(d.Deadline); s != "" {
		t, err := ParseDeadline(s)
		if err != nil {
			return models.OpportunityInput{}, err
		}
		in.Deadline = &t
	}

	return NormalizeInput(in, fallbackOrg)
}

// NormalizeInput applies the listing rules to an input that did not come from
// a form: blank optionals become nil, the organization falls back to
// fallbackOrg and then to UnknownOrganization, and required fields are checked.
func NormalizeInput(in models.OpportunityInput, fallbackOrg string) (models.OpportunityInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Organization = strings.TrimSpace(in.Organization)
	if in.Organization == "" {
		in.Organization = strings.TrimSpace(fallbackOrg)
	}
	if in.Organization == "" {
		in.Organization = UnknownOrganization
	}
	in.Location = optionalPtr(in.Location)
	in.Stipend = optionalPtr(in.Stipend)
	in.Eligibility = optionalPtr(in.Eligibility)
	in.ApplyLink = optionalPtr(in.ApplyLink)

	if err := validate.Struct(in); err != nil {
		return models.OpportunityInput{}, translate(err)
	}
	return in, nil
}

// DraftFrom fills a form from a stored record.
func DraftFrom(o models.Opportunity) Draft {
	d := Draft{
		Title:        o.Title,
		Organization: o.Organization,
		Type:         string(o.Type),
		Location:     deref(o.Location),
		Stipend:      deref(o.Stipend),
		Eligibility:  deref(o.Eligibility),
		Description:  o.Description,
		ApplyLink:    deref(o.ApplyLink),
	}
	if o.Deadline != nil {
		d.Deadline = FormatDeadline(*o.Deadline)
	}
	return d
}

// ParseDeadline accepts the form layout (local time) or RFC 3339.
func ParseDeadline(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(DeadlineLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, validationErr("deadline %q is not a valid date, use %s", s, DeadlineLayout)
}

// FormatDeadline renders t in the form layout. Times that carry seconds
// are rendered as RFC 3339 so an unedited deadline survives a round trip.
func FormatDeadline(t time.Time) string {
	t = t.In(time.Local)
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return t.Format(time.RFC3339Nano)
	}
	return t.Format(DeadlineLayout)
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return validationErr("%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
		case "url":
			msgs = append(msgs, fe.Field()+" must be a valid URL")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return validationErr("%s", strings.Join(msgs, "; "))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return optional(*p)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
