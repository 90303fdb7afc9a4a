package pricing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"jewelclaw/internal/pricing/calculators"
)

// Best-effort shorthand parsing for chat messages like
// "quote 10g 22k necklace x3" or "quote 5g 18k ring 30 cz pave".
// Inputs from the tool layer arrive typed; this adapter only covers the
// quick textual form.

var (
	reWeight       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:g|gm|gram|grams)\b`)
	reLeadingNum   = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
	reKarat        = regexp.MustCompile(`(\d{1,2})\s*k(?:t|arat)?\b`)
	reQuantity     = regexp.MustCompile(`[x×]\s*(\d+)`)
	reCZ           = regexp.MustCompile(`(\d+)\s*(?:cz|czs|cubic)\b`)
	reDiamondCt    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ct|carat)s?\s*(?:diamond|dia)\b`)
	reDiamondCount = regexp.MustCompile(`(\d+)\s*(?:diamond|dia)s?\b`)
	reQuality      = regexp.MustCompile(`([defghij]{1,3})\s*[-/]?\s*(vvs|vs|si|if)`)
	reLab          = regexp.MustCompile(`\blab\b`)
	reSieve        = regexp.MustCompile(`sieve\s*(\d+\+?)`)
	reStoneCost    = regexp.MustCompile(`stone\s*(?:cost)?\s*(\d+(?:\.\d+)?)`)
	reGemstone     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ct|carat)?s?\s*(ruby|emerald|sapphire|amethyst|topaz|garnet|peridot|citrine|tanzanite|opal|tourmaline|aquamarine)`)
)

var czSettings = []string{"micro_pave", "micro pave", "wax_set", "wax set", "pave", "prong", "bezel", "channel"}
var diamondSettings = []string{"micro_pave", "micro pave", "invisible", "pave", "prong", "bezel", "channel"}

// finishAliases lists finish types longest-first so a compound finish
// ("black rhodium") claims its words before a shorter one ("rhodium")
// can. The fixed order also keeps the parsed list deterministic.
var finishAliases = func() []string {
	aliases := make([]string, 0, len(calculators.FinishingRatesINR))
	for f := range calculators.FinishingRatesINR {
		aliases = append(aliases, f)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})
	return aliases
}()

// ParseQuoteText parses a shorthand quote request. The second return is
// false when no weight can be found, which means the text is not a quote.
func ParseQuoteText(text string) (QuoteRequest, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.TrimPrefix(text, "quote")
	text = strings.TrimSpace(text)

	var req QuoteRequest

	m := reWeight.FindStringSubmatch(text)
	if m == nil {
		m = reLeadingNum.FindStringSubmatch(text)
	}
	if m == nil {
		return req, false
	}
	req.WeightGrams, _ = strconv.ParseFloat(m[1], 64)

	req.Karat = "22k"
	if m := reKarat.FindStringSubmatch(text); m != nil {
		req.Karat = m[1] + "k"
	}

	req.JewelryType = "general"
	for alias, jtype := range calculators.JewelryAliases {
		if containsWord(text, alias) {
			req.JewelryType = jtype
			break
		}
	}

	req.Quantity = 1
	if m := reQuantity.FindStringSubmatch(text); m != nil {
		req.Quantity, _ = strconv.Atoi(m[1])
	}

	if m := reCZ.FindStringSubmatch(text); m != nil {
		req.CZCount, _ = strconv.Atoi(m[1])
		req.CZSetting = "pave"
		for _, s := range czSettings {
			if strings.Contains(text, s) {
				req.CZSetting = strings.ReplaceAll(s, " ", "_")
				break
			}
		}
	}

	ctMatch := reDiamondCt.FindStringSubmatch(text)
	countMatch := reDiamondCount.FindStringSubmatch(text)
	if ctMatch != nil || countMatch != nil {
		var d calculators.DiamondGroup
		if ctMatch != nil {
			d.TotalCarats, _ = strconv.ParseFloat(ctMatch[1], 64)
		} else {
			d.Count, _ = strconv.Atoi(countMatch[1])
		}
		d.Quality = "GH-VS"
		if m := reQuality.FindStringSubmatch(text); m != nil {
			d.Quality = m[1] + "-" + m[2]
		}
		d.Lab = reLab.MatchString(text)
		d.Sieve = "7"
		if m := reSieve.FindStringSubmatch(text); m != nil {
			d.Sieve = m[1]
		}
		d.Setting = "prong"
		for _, s := range diamondSettings {
			if strings.Contains(text, s) {
				d.Setting = strings.ReplaceAll(s, " ", "_")
				break
			}
		}
		req.Diamonds = append(req.Diamonds, d)
	}

	for _, m := range reGemstone.FindAllStringSubmatch(text, -1) {
		carats, _ := strconv.ParseFloat(m[1], 64)
		req.Gemstones = append(req.Gemstones, calculators.GemstoneInput{
			Stone:  m[2],
			Carats: carats,
			Grade:  "mid",
		})
	}

	remaining := text
	for _, ftype := range finishAliases {
		matched := ""
		if containsWord(remaining, ftype) {
			matched = ftype
		} else if spaced := strings.ReplaceAll(ftype, "_", " "); containsWord(remaining, spaced) {
			matched = spaced
		}
		if matched == "" {
			continue
		}
		req.Finishing = append(req.Finishing, ftype)
		// Blank out the claimed words so a shorter alias cannot rebill them.
		remaining = strings.ReplaceAll(remaining, matched, " ")
	}

	if m := reStoneCost.FindStringSubmatch(text); m != nil {
		req.StoneCost, _ = strconv.ParseFloat(m[1], 64)
	}

	return req, true
}

func containsWord(text, word string) bool {
	idx := strings.Index(text, word)
	for idx >= 0 {
		before := idx == 0 || !isWordChar(text[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(text) || !isWordChar(text[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(text[idx+1:], word)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
