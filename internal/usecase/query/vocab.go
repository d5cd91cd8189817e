package query

import "github.com/makersmarket/discovery/internal/domain/search/processed"

// Extraction confidence is fixed per vocabulary.
const (
	priceConfidence    = 0.9
	colorConfidence    = 0.8
	materialConfidence = 0.8
	sizeConfidence     = 0.7
)

// stopWords are dropped during keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
	"this": {}, "that": {}, "are": {}, "was": {}, "can": {},
	"you": {}, "your": {}, "its": {}, "has": {}, "have": {},
	"not": {}, "but": {}, "all": {}, "any": {}, "out": {},
}

// synonyms maps a fixed set of domain terms to expansion lists.
var synonyms = map[string][]string{
	"handmade":  {"artisan", "crafted", "handcrafted"},
	"artisan":   {"handmade", "maker", "craftsman"},
	"pottery":   {"ceramic", "ceramics", "stoneware"},
	"jewelry":   {"jewellery", "accessories"},
	"mug":       {"cup", "tumbler"},
	"bowl":      {"dish", "vessel"},
	"bag":       {"purse", "tote"},
	"picture":   {"print", "artwork"},
	"necklace":  {"pendant", "chain"},
	"candle":    {"candles", "wax"},
	"soap":      {"skincare", "bath"},
	"blanket":   {"throw", "quilt"},
	"woodwork":  {"carving", "woodworking"},
	"knitted":   {"knit", "crochet"},
	"local":     {"nearby", "community"},
	"gift":      {"present", "keepsake"},
	"decor":     {"decoration", "homeware"},
	"furniture": {"table", "shelf"},
}

// intentRule maps trigger keywords to an intent. Rules are evaluated in
// order; the first matching rule wins.
type intentRule struct {
	intent   processed.Intent
	keywords []string
}

var intentRules = []intentRule{
	{processed.Gift, []string{"gift", "present", "for her", "for him", "anniversary", "birthday"}},
	{processed.Custom, []string{"custom", "personalized", "personalised", "made to order", "engraved", "bespoke"}},
	{processed.Budget, []string{"cheap", "affordable", "under", "budget", "inexpensive"}},
	{processed.Premium, []string{"premium", "luxury", "finest", "high end", "high-end", "heirloom"}},
	{processed.Purchase, []string{"buy", "purchase", "order", "shop"}},
}
