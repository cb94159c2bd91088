package validator_test

import (
	"testing"

	"diary-app/src/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Text     string `json:"text" validate:"required,max=500,safe_text"`
	Date     string `json:"date" validate:"omitempty,calendar_date"`
	ItemType string `json:"item_type" validate:"required,item_type"`
}

func TestCustomValidator_Validate(t *testing.T) {
	cv := validator.NewCustomValidator()

	tests := []struct {
		name       string
		req        sampleRequest
		wantFields []string
		wantTags   []string
	}{
		{
			name: "正常",
			req:  sampleRequest{Text: "牛乳を買う\n卵も", Date: "2024-02-29", ItemType: "daily_todo"},
		},
		{
			name:       "必須項目なし",
			req:        sampleRequest{},
			wantFields: []string{"text", "item_type"},
			wantTags:   []string{"required", "required"},
		},
		{
			name:       "存在しない日付",
			req:        sampleRequest{Text: "x", Date: "2023-02-29", ItemType: "daily_todo"},
			wantFields: []string{"date"},
			wantTags:   []string{"calendar_date"},
		},
		{
			name:       "スクリプト",
			req:        sampleRequest{Text: "<script>alert(1)</script>", ItemType: "daily_todo"},
			wantFields: []string{"text"},
			wantTags:   []string{"safe_text"},
		},
		{
			name:       "制御文字",
			req:        sampleRequest{Text: "a\x00b", ItemType: "daily_todo"},
			wantFields: []string{"text"},
			wantTags:   []string{"safe_text"},
		},
		{
			name:       "不正な種別",
			req:        sampleRequest{Text: "x", ItemType: "weekly"},
			wantFields: []string{"item_type"},
			wantTags:   []string{"item_type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			ve, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			require.Len(t, ve.Errors, len(tt.wantFields))
			for i := range tt.wantFields {
				assert.Equal(t, tt.wantFields[i], ve.Errors[i].Field)
				assert.Equal(t, tt.wantTags[i], ve.Errors[i].Tag)
				assert.NotEmpty(t, ve.Errors[i].Message)
			}
		})
	}
}

func TestCustomValidator_ValidateID(t *testing.T) {
	cv := validator.NewCustomValidator()

	id, err := cv.ValidateID("3F2504E0-4F89-11D3-9A0C-0305E82C3301")
	require.NoError(t, err)
	assert.Equal(t, "3f2504e0-4f89-11d3-9a0c-0305e82c3301", id)

	_, err = cv.ValidateID("1; DROP TABLE daily_todos")
	assert.Error(t, err)
}
