package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reelscribe/internal/app/errors"
)

func TestParseRecipeResponse(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		content := `{
			"title": "Garlic Butter Pasta",
			"description": "A quick weeknight pasta.",
			"ingredients": [
				{"item": "pasta", "quantity": 200, "unit": "g", "raw_text": "200g pasta"},
				{"item": "garlic", "quantity": 3, "unit": "clove", "raw_text": "3 cloves of garlic"}
			],
			"instructions": [
				{"step": 1, "text": "Boil the pasta in salted water."},
				{"step": 2, "text": "Fry the garlic in butter, then toss."}
			],
			"prep_time_minutes": 5,
			"cook_time_minutes": 15,
			"servings": 2,
			"cuisine": "Italian",
			"dietary_tags": ["vegetarian"]
		}`

		recipe, err := parseRecipeResponse(content)
		require.NoError(t, err)
		assert.Equal(t, "Garlic Butter Pasta", recipe.Title)
		require.Len(t, recipe.Ingredients, 2)
		assert.Equal(t, "garlic", recipe.Ingredients[1].Item)
		require.NotNil(t, recipe.Ingredients[1].Quantity)
		assert.Equal(t, 3.0, *recipe.Ingredients[1].Quantity)
		require.Len(t, recipe.Instructions, 2)
		assert.Equal(t, 2, recipe.Instructions[1].Step)
		require.NotNil(t, recipe.Servings)
		assert.Equal(t, 2, *recipe.Servings)
		assert.Equal(t, "Italian", recipe.Cuisine)
	})

	t.Run("code fences stripped", func(t *testing.T) {
		content := "```json\n{\"title\":\"Toast\",\"ingredients\":[],\"instructions\":[]}\n```"
		recipe, err := parseRecipeResponse(content)
		require.NoError(t, err)
		assert.Equal(t, "Toast", recipe.Title)
	})

	t.Run("null quantity preserved in raw text", func(t *testing.T) {
		content := `{
			"title": "Soup",
			"ingredients": [{"item": "salt", "quantity": null, "unit": "", "raw_text": "a pinch of salt"}],
			"instructions": [{"step": 1, "text": "Season to taste."}]
		}`
		recipe, err := parseRecipeResponse(content)
		require.NoError(t, err)
		require.Len(t, recipe.Ingredients, 1)
		assert.Nil(t, recipe.Ingredients[0].Quantity)
		assert.Equal(t, "a pinch of salt", recipe.Ingredients[0].RawText)
	})

	t.Run("optional fields defaulted", func(t *testing.T) {
		content := `{"title":"Toast","ingredients":[],"instructions":[]}`
		recipe, err := parseRecipeResponse(content)
		require.NoError(t, err)
		assert.Equal(t, "Other", recipe.Cuisine)
		assert.NotNil(t, recipe.DietaryTags)
		assert.Empty(t, recipe.DietaryTags)
		assert.Nil(t, recipe.PrepTimeMinutes)
		assert.Nil(t, recipe.Servings)
	})

	t.Run("missing required fields", func(t *testing.T) {
		content := `{"description":"no title here","instructions":[]}`
		_, err := parseRecipeResponse(content)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindMalformedResponse, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), "title")
		assert.Contains(t, err.Error(), "ingredients")
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parseRecipeResponse("Sorry, I cannot extract a recipe.")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindMalformedResponse, apperrors.KindOf(err))
	})
}

func TestDetectTranscriptLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"hebrew", "מתכון לחומוס ביתי", "Hebrew"},
		{"arabic", "وصفة الحمص", "Arabic"},
		{"chinese", "番茄炒蛋的做法", "Chinese"},
		{"japanese", "たまごやきの作り方", "Japanese"},
		{"korean", "김치찌개 만들기", "Korean"},
		{"cyrillic", "рецепт борща", "Russian"},
		{"thai", "วิธีทำต้มยำ", "Thai"},
		{"latin", "how to make pasta", "the original language"},
		{"empty", "", "the original language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectTranscriptLanguage(tt.text))
		})
	}
}
