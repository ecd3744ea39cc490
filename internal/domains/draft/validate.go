package draft

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared/apperror"
)

// Validate runs the publish-time checks. It never modifies the form.
func (f FormState) Validate() error {
	deals := f.IsDeals()
	name := strings.TrimSpace(f.Name)
	dealTitle := strings.TrimSpace(f.DealTitle)

	err := validation.ValidateStruct(&f,
		validation.Field(&f.CategoryID, validation.Required.Error("category is required")),
		validation.Field(&f.Name, validation.By(func(interface{}) error {
			if !deals && name == "" {
				return validation.NewError("validation_required", "name is required")
			}
			return nil
		})),
		validation.Field(&f.DealTitle, validation.By(func(interface{}) error {
			if deals && dealTitle == "" {
				return validation.NewError("validation_required", "deal title is required")
			}
			return nil
		})),
		validation.Field(&f.THCPercent, validation.By(decimalRange(0, 100))),
		validation.Field(&f.CBDPercent, validation.By(decimalRange(0, 100))),
		validation.Field(&f.DoseMg, validation.By(decimalRange(0, 10000))),
		validation.Field(&f.DealValue, validation.By(decimalRange(0, 100000))),
		validation.Field(&f.EffectTags, validation.Length(0, pick.MaxEffectTags)),
		validation.Field(&f.Rating, validation.Min(1), validation.Max(5)),
	)
	if err == nil {
		return nil
	}

	// message priority: category, name, deal title
	appErr, ok := apperror.As(apperror.FromValidation(err))
	if !ok {
		return err
	}
	if fields, ok := appErr.Details.(map[string]string); ok {
		for _, key := range []string{FieldCategoryID, FieldName, FieldDealTitle} {
			if msg, ok := fields[key]; ok {
				return appErr.WithMessage("%s", msg)
			}
		}
	}
	return appErr
}

func decimalRange(min, max int64) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return validation.NewError("validation_number", "must be a number")
		}
		if d.LessThan(decimal.NewFromInt(min)) || d.GreaterThan(decimal.NewFromInt(max)) {
			return validation.NewError("validation_range", "is out of range")
		}
		return nil
	}
}

// ToInput builds the persistence payload: strings are trimmed and empty
// strings or lists become nil. Call Validate first.
func (f FormState) ToInput(staffID uuid.UUID) pick.Input {
	in := pick.Input{
		StaffID:   staffID,
		ProductID: f.ProductID,
		AssetID:   f.AssetID,

		Name:  text(f.Name),
		Brand: text(f.Brand),
		Notes: text(f.Notes),

		StrainType: text(f.StrainType),
		THCPercent: number(f.THCPercent),
		CBDPercent: number(f.CBDPercent),
		Terpenes:   list(f.Terpenes),

		Hardware:   text(f.Hardware),
		Extraction: text(f.Extraction),

		DoseMg: number(f.DoseMg),
		Onset:  text(f.Onset),

		DealTitle:       text(f.DealTitle),
		DealDescription: text(f.DealDescription),
		DealType:        text(f.DealType),
		DealValue:       number(f.DealValue),
		DealDays:        list(f.DealDays),
		DealFinePrint:   text(f.DealFinePrint),

		EffectTags: list(f.EffectTags),
		CustomTags: list(f.CustomTags),
		Rating:     f.Rating,
		IsActive:   f.IsActive,
	}
	if f.CategoryID != nil {
		in.CategoryID = *f.CategoryID
	}
	return in
}

func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func number(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func list(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func decimalText(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
