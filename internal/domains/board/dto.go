package board

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateBoardRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

func (r CreateBoardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 80)),
	)
}

type UpdateBoardRequest struct {
	Name      *string `json:"name"`
	IsDefault *bool   `json:"is_default"`
}

func (r UpdateBoardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty.Error("name cannot be empty"), validation.Length(1, 80)),
	)
}

type AddItemRequest struct {
	Kind    ItemKind   `json:"kind"`
	PickID  *uuid.UUID `json:"pick_id"`
	AssetID *uuid.UUID `json:"asset_id"`
	Text    *string    `json:"text"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.Required, validation.In(KindPick, KindAsset, KindText).Error("kind must be pick, asset or text")),
		validation.Field(&r.PickID, validation.When(r.Kind == KindPick, validation.Required.Error("pick_id is required")).
			Else(validation.Nil.Error("pick_id is only allowed on pick items"))),
		validation.Field(&r.AssetID, validation.When(r.Kind == KindAsset, validation.Required.Error("asset_id is required")).
			Else(validation.Nil.Error("asset_id is only allowed on asset items"))),
		validation.Field(&r.Text, validation.When(r.Kind == KindText,
			validation.Required.Error("text is required"), validation.By(notBlank), validation.Length(1, 500)).
			Else(validation.Nil.Error("text is only allowed on text items"))),
	)
}

func notBlank(value interface{}) error {
	if s, ok := value.(*string); ok && s != nil && strings.TrimSpace(*s) == "" {
		return validation.NewError("validation_blank", "text cannot be blank")
	}
	return nil
}

type ReorderRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}
