package api

import (
	"errors"
	"net/http"

	"fresh/internal/matching"
	"fresh/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListRecipes returns the whole catalog
func (a *API) ListRecipes(c *gin.Context) {
	recipes, err := a.store.Recipes.List()
	if err != nil {
		a.internalError(c, "Error fetching recipes", err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// RecipesByCategory returns recipes whose category contains ?category
func (a *API) RecipesByCategory(c *gin.Context) {
	recipes, err := a.store.Recipes.ByCategory(c.Query("category"))
	if err != nil {
		a.internalError(c, "Error fetching recipes by category", err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe returns one recipe
func (a *API) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := a.store.Recipes.Get(id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if err != nil {
		a.internalError(c, "Error fetching recipe details", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// MissingIngredients lists the recipe ingredients the caller's pantry does not cover
func (a *API) MissingIngredients(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := a.store.Recipes.Get(id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if err != nil {
		a.internalError(c, "Error fetching recipe details", err)
		return
	}
	pantry, err := a.store.Pantry.List(callerID(c))
	if err != nil {
		a.internalError(c, "Error fetching pantry", err)
		return
	}

	missing := matching.MissingIngredients(pantry, *recipe)
	c.JSON(http.StatusOK, gin.H{
		"recipe_id": recipe.ID,
		"matchable": len(missing) == 0,
		"missing":   missing,
	})
}

// GetNutrients returns the nutrient facts of a recipe
func (a *API) GetNutrients(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	nutrient, err := a.store.Recipes.Nutrients(id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nutritional information not found for this recipe"})
		return
	}
	if err != nil {
		a.internalError(c, "Error fetching nutritional information", err)
		return
	}
	c.JSON(http.StatusOK, nutrient)
}

// ListIngredients returns every distinct ingredient name
func (a *API) ListIngredients(c *gin.Context) {
	names, err := a.store.Recipes.IngredientNames()
	if err != nil {
		a.internalError(c, "Error fetching ingredients", err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// AIMenu returns the recipes the caller's pantry fully covers
func (a *API) AIMenu(c *gin.Context) {
	recipes, err := a.store.AIMenu(callerID(c))
	if err != nil {
		a.internalError(c, "Error fetching AI Menu recipes", err)
		return
	}
	a.metrics.RecordMatched(len(recipes))
	c.JSON(http.StatusOK, recipes)
}
