package pricing

// Quote is the itemized result of one pricing run. All amounts are in the
// quote's Currency at full float precision; rounding happens only when the
// bill is formatted. Line items price a single piece; GrandTotal applies
// the quantity.
type Quote struct {
	JewelryType string
	WeightGrams float64
	Karat       string
	City        string
	Currency    string
	USDINR      float64
	RateDate    string

	GoldRatePerGram float64
	GoldCost        float64

	WastagePct  float64
	WastageCost float64

	MakingDetail   string
	MakingCost     float64
	IsCustomMaking bool

	CZCount  int
	CZDetail string
	CZCost   float64

	DiamondCost        float64
	DiamondDetails     []string
	DiamondSettingCost float64

	GemstoneCost    float64
	GemstoneDetails []string

	FinishingCost    float64
	FinishingDetails []string

	StoneCost      float64 // legacy flat add-on
	HallmarkCharge float64

	Subtotal float64
	GSTPct   float64
	GST      float64

	TotalPerPiece float64
	Quantity      int
	GrandTotal    float64

	// Margin overlay; presentation only, never fed back into the sum.
	ProfitMarginPct float64
	CostPrice       float64
	SellingPrice    float64
	Profit          float64

	// Notes surface permissive fallbacks (unknown settings, grades) so
	// substitutions are observable rather than silent.
	Notes []string
}
