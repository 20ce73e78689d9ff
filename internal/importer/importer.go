// Package importer turns published recipe web pages into catalog recipes.
//
// Pages are read with goquery. schema.org Recipe data in JSON-LD is preferred;
// pages without it fall back to schema.org microdata attributes.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fresh/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoRecipe is returned when a page carries no recognisable recipe
var ErrNoRecipe = errors.New("no recipe found on page")

// Importer fetches recipe pages over HTTP
type Importer struct {
	client *http.Client
}

// New creates an Importer. A nil client gets a 15 second timeout.
func New(client *http.Client) *Importer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Importer{client: client}
}

// FetchURL downloads url and parses the recipe it describes
func (i *Importer) FetchURL(ctx context.Context, url string) (*models.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse reads a recipe from an HTML document
func Parse(r io.Reader) (*models.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var recipe *models.Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		recipe = fromJSONLD(s.Text())
		return recipe == nil
	})
	if recipe == nil {
		recipe = fromMicrodata(doc)
	}
	if recipe == nil || recipe.Title == "" || len(recipe.IngredientList()) == 0 {
		return nil, ErrNoRecipe
	}
	return recipe, nil
}

func fromJSONLD(text string) *models.Recipe {
	var data interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &data); err != nil {
		return nil
	}
	node := findRecipeNode(data)
	if node == nil {
		return nil
	}

	recipe := &models.Recipe{
		Title:       str(node["name"]),
		Description: str(node["description"]),
		Category:    strings.Join(strList(node["recipeCategory"]), ", "),
		Cuisine:     strings.Join(strList(node["recipeCuisine"]), ", "),
		Image:       imageURL(node["image"]),
		PrepTime:    isoMinutes(str(node["prepTime"])),
		CookTime:    isoMinutes(str(node["cookTime"])),
		TotalTime:   isoMinutes(str(node["totalTime"])),
		Tags:        models.StringSlice(keywords(node["keywords"])),
	}
	if rating, ok := node["aggregateRating"].(map[string]interface{}); ok {
		recipe.Ratings, _ = strconv.ParseFloat(str(rating["ratingValue"]), 64)
	}
	recipe.SetIngredientList(strList(node["recipeIngredient"]))
	recipe.SetInstructionList(instructions(node["recipeInstructions"]))
	fillTotal(recipe)
	return recipe
}

// findRecipeNode walks arrays and @graph containers for a Recipe object
func findRecipeNode(data interface{}) map[string]interface{} {
	switch v := data.(type) {
	case []interface{}:
		for _, item := range v {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	case map[string]interface{}:
		for _, t := range strList(v["@type"]) {
			if t == "Recipe" {
				return v
			}
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func fromMicrodata(doc *goquery.Document) *models.Recipe {
	scope := doc.Find(`[itemtype$="schema.org/Recipe"]`).First()
	if scope.Length() == 0 {
		return nil
	}

	prop := func(name string) string {
		s := scope.Find(`[itemprop="` + name + `"]`).First()
		if content, ok := s.Attr("content"); ok {
			return strings.TrimSpace(content)
		}
		if dt, ok := s.Attr("datetime"); ok {
			return strings.TrimSpace(dt)
		}
		return strings.TrimSpace(s.Text())
	}
	all := func(name string) []string {
		var out []string
		scope.Find(`[itemprop="` + name + `"]`).Each(func(_ int, s *goquery.Selection) {
			if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
				out = append(out, text)
			}
		})
		return out
	}

	recipe := &models.Recipe{
		Title:       prop("name"),
		Description: prop("description"),
		Category:    prop("recipeCategory"),
		Cuisine:     prop("recipeCuisine"),
		PrepTime:    isoMinutes(prop("prepTime")),
		CookTime:    isoMinutes(prop("cookTime")),
		TotalTime:   isoMinutes(prop("totalTime")),
	}
	if img := scope.Find(`[itemprop="image"]`).First(); img.Length() != 0 {
		if src, ok := img.Attr("src"); ok {
			recipe.Image = src
		} else {
			recipe.Image, _ = img.Attr("content")
		}
	}
	if recipe.Title == "" {
		recipe.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	ingredients := all("recipeIngredient")
	if len(ingredients) == 0 {
		ingredients = all("ingredients")
	}
	recipe.SetIngredientList(ingredients)
	recipe.SetInstructionList(all("recipeInstructions"))
	fillTotal(recipe)
	return recipe
}

func fillTotal(r *models.Recipe) {
	if r.TotalTime == 0 {
		r.TotalTime = r.PrepTime + r.CookTime
	}
}

func str(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func strList(v interface{}) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []interface{}:
		var out []string
		for _, item := range t {
			if s := str(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func keywords(v interface{}) []string {
	if s, ok := v.(string); ok {
		var out []string
		for _, k := range strings.Split(s, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
		return out
	}
	return strList(v)
}

func imageURL(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		if len(t) > 0 {
			return imageURL(t[0])
		}
	case map[string]interface{}:
		return str(t["url"])
	}
	return ""
}

// instructions flattens strings, HowToStep and HowToSection values
func instructions(v interface{}) []string {
	switch t := v.(type) {
	case string:
		var out []string
		for _, line := range strings.Split(t, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	case []interface{}:
		var out []string
		for _, item := range t {
			out = append(out, instructions(item)...)
		}
		return out
	case map[string]interface{}:
		if items, ok := t["itemListElement"]; ok {
			return instructions(items)
		}
		if text := str(t["text"]); text != "" {
			return []string{text}
		}
		return strList(t["name"])
	}
	return nil
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// isoMinutes converts an ISO 8601 duration such as PT1H30M to minutes
func isoMinutes(s string) float64 {
	m := isoDuration.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}
	part := func(i int) float64 {
		if m[i] == "" {
			return 0
		}
		n, _ := strconv.ParseFloat(m[i], 64)
		return n
	}
	return part(1)*24*60 + part(2)*60 + part(3) + part(4)/60
}
