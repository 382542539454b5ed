// Package comps produces comparable-sales analyses for a vehicle and
// reconciles them with manually gathered comps. Discovery is simulated
// from the vehicle's own parameters and is deterministic per vehicle.
package comps

import (
	stderrors "errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/ajharbinger/lotpilot/internal/errors"
)

const (
	maxCompletedSales = 12
	maxActiveListings = 8
	maxReturned       = 8
	defaultMedianDays = 35
)

// ErrInsufficientData is the cause when neither a comp band nor a list price is known
var ErrInsufficientData = stderrors.New("insufficient data for comp analysis")

var (
	saleSources    = []string{"Auction", "Retail - Delisted", "Dealer Retail"}
	listingSources = []string{"AutoTrader", "Cars.com", "CarGurus", "Dealer Website"}
)

// Query describes the vehicle comps are wanted for
type Query struct {
	Year           int     `json:"year" binding:"required"`
	Make           string  `json:"make" binding:"required"`
	Model          string  `json:"model" binding:"required"`
	Trim           string  `json:"trim"`
	Mileage        int     `json:"mileage" binding:"gte=0"`
	ListPrice      float64 `json:"list_price" binding:"gte=0"`
	CompLow        float64 `json:"comp_low" binding:"gte=0"`
	CompHigh       float64 `json:"comp_high" binding:"gte=0"`
	CompetingUnits int     `json:"competing_units" binding:"gte=0"`
	ZipCode        string  `json:"zip_code"`
}

// CompletedSale is a sold comparable
type CompletedSale struct {
	Price         float64 `json:"price"`
	Mileage       int     `json:"mileage"`
	DaysOnMarket  int     `json:"days_on_market"`
	Source        string  `json:"source"`
	DistanceMiles int     `json:"distance_miles"`
}

// ActiveListing is a competing unit still for sale
type ActiveListing struct {
	Price         float64 `json:"price"`
	Mileage       int     `json:"mileage"`
	DaysListed    int     `json:"days_listed"`
	Source        string  `json:"source"`
	DistanceMiles int     `json:"distance_miles"`
}

type CompCount struct {
	CompletedSales int `json:"completed_sales"`
	ActiveListings int `json:"active_listings"`
	Total          int `json:"total"`
}

type PriceAnalysis struct {
	MedianSalePrice  int `json:"median_sale_price"`
	AverageSalePrice int `json:"average_sale_price"`
	PriceRangeLow    int `json:"price_range_low"`
	PriceRangeHigh   int `json:"price_range_high"`
	PriceStdDev      int `json:"price_std_dev"`
}

type DaysToSale struct {
	Median  int `json:"median"`
	Average int `json:"average"`
	Fastest int `json:"fastest"`
	Slowest int `json:"slowest"`
}

type SupplyDemand struct {
	SupplyPressure       string `json:"supply_pressure"`
	SupplyDetail         string `json:"supply_detail"`
	Velocity             string `json:"velocity"`
	VelocityDetail       string `json:"velocity_detail"`
	ActiveInventoryCount int    `json:"active_inventory_count"`
}

// Analysis is a full comp discovery result
type Analysis struct {
	VehicleSearched string          `json:"vehicle_searched"`
	CompCount       CompCount       `json:"comp_count"`
	PriceAnalysis   PriceAnalysis   `json:"price_analysis"`
	DaysToSale      DaysToSale      `json:"days_to_sale"`
	SupplyDemand    SupplyDemand    `json:"supply_demand"`
	CompletedSales  []CompletedSale `json:"completed_sales"`
	ActiveListings  []ActiveListing `json:"active_listings"`
	DataFreshness   string          `json:"data_freshness"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Generator produces simulated comp analyses
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a comp generator
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// seedFor hashes the fields that identify a vehicle so the same vehicle
// always gets the same comps
func seedFor(q Query) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d%s%s%d", q.Year, strings.ToLower(q.Make), strings.ToLower(q.Model), q.Mileage)
	return int64(h.Sum64())
}

// band returns the price band comps are drawn from
func band(q Query) (low, high float64, err error) {
	switch {
	case q.CompLow > 0 && q.CompHigh > 0:
		return q.CompLow, q.CompHigh, nil
	case q.ListPrice > 0:
		return q.ListPrice * 0.88, q.ListPrice * 1.05, nil
	default:
		return 0, 0, ErrInsufficientData
	}
}

// Discover generates a comp analysis for the query
func (g *Generator) Discover(q Query) (*Analysis, error) {
	if q.Year == 0 || q.Make == "" || q.Model == "" {
		return nil, errors.InvalidInput("Year, make, and model are required", nil).WithOperation("discover_comps")
	}
	low, high, err := band(q)
	if err != nil {
		return nil, errors.InvalidInput("Insufficient data for comp analysis", err).
			WithOperation("discover_comps").
			WithDetails("provide comp_low and comp_high, or list_price")
	}

	rng := rand.New(rand.NewSource(seedFor(q)))
	mid := (low + high) / 2
	spread := high - low

	total := q.CompetingUnits
	if total <= 0 {
		total = 8 + rng.Intn(18)
	}

	sales := make([]CompletedSale, 0, maxCompletedSales)
	for i := 0; i < min(total, maxCompletedSales); i++ {
		price := roundToHundred(mid + rng.NormFloat64()*spread*0.15)
		sales = append(sales, CompletedSale{
			Price:         price,
			Mileage:       max(5000, q.Mileage-8000+rng.Intn(20001)),
			DaysOnMarket:  max(3, int(35+rng.NormFloat64()*15)),
			Source:        saleSources[rng.Intn(len(saleSources))],
			DistanceMiles: 5 + rng.Intn(91),
		})
	}

	activeInventory := max(total-len(sales), 0)
	listings := make([]ActiveListing, 0, maxActiveListings)
	for i := 0; i < min(activeInventory, maxActiveListings); i++ {
		price := roundToHundred(mid + spread*0.05 + rng.NormFloat64()*spread*0.15)
		listings = append(listings, ActiveListing{
			Price:         price,
			Mileage:       max(5000, q.Mileage-5000+rng.Intn(20001)),
			DaysListed:    1 + rng.Intn(65),
			Source:        listingSources[rng.Intn(len(listingSources))],
			DistanceMiles: 5 + rng.Intn(91),
		})
	}

	prices := make([]float64, len(sales))
	days := make([]int, len(sales))
	for i, s := range sales {
		prices[i] = s.Price
		days[i] = s.DaysOnMarket
	}
	sort.Float64s(prices)
	sort.Ints(days)

	result := &Analysis{
		VehicleSearched: strings.TrimSpace(fmt.Sprintf("%d %s %s %s", q.Year, q.Make, q.Model, q.Trim)),
		CompCount: CompCount{
			CompletedSales: len(sales),
			ActiveListings: len(listings),
			Total:          len(sales) + len(listings),
		},
		PriceAnalysis:  summarizePrices(prices, low, high, mid),
		DaysToSale:     summarizeDays(days),
		SupplyDemand:   assessSupply(activeInventory, medianInt(days)),
		CompletedSales: sales[:min(len(sales), maxReturned)],
		ActiveListings: listings,
		DataFreshness:  "Simulated: production deployments use live market feeds",
		GeneratedAt:    g.now().UTC(),
	}
	return result, nil
}

func summarizePrices(sorted []float64, low, high, mid float64) PriceAnalysis {
	if len(sorted) == 0 {
		return PriceAnalysis{
			MedianSalePrice:  roundInt(mid),
			AverageSalePrice: roundInt(mid),
			PriceRangeLow:    roundInt(low),
			PriceRangeHigh:   roundInt(high),
		}
	}
	return PriceAnalysis{
		MedianSalePrice:  roundInt(sorted[len(sorted)/2]),
		AverageSalePrice: roundInt(mean(sorted)),
		PriceRangeLow:    roundInt(sorted[0]),
		PriceRangeHigh:   roundInt(sorted[len(sorted)-1]),
		PriceStdDev:      roundInt(stdDev(sorted)),
	}
}

func summarizeDays(sorted []int) DaysToSale {
	if len(sorted) == 0 {
		return DaysToSale{Median: defaultMedianDays, Average: defaultMedianDays}
	}
	total := 0
	for _, d := range sorted {
		total += d
	}
	return DaysToSale{
		Median:  sorted[len(sorted)/2],
		Average: roundInt(float64(total) / float64(len(sorted))),
		Fastest: sorted[0],
		Slowest: sorted[len(sorted)-1],
	}
}

func assessSupply(activeInventory, medianDays int) SupplyDemand {
	sd := SupplyDemand{ActiveInventoryCount: activeInventory}

	switch {
	case activeInventory > 15:
		sd.SupplyPressure = "HIGH"
		sd.SupplyDetail = fmt.Sprintf("%d active listings create significant buyer leverage.", activeInventory)
	case activeInventory > 8:
		sd.SupplyPressure = "MODERATE"
		sd.SupplyDetail = fmt.Sprintf("%d active listings: competitive but manageable.", activeInventory)
	default:
		sd.SupplyPressure = "LOW"
		sd.SupplyDetail = fmt.Sprintf("Only %d active listings: supply scarcity favors sellers.", activeInventory)
	}

	switch {
	case medianDays <= 25:
		sd.Velocity = "FAST"
		sd.VelocityDetail = fmt.Sprintf("Median %d days to sale: high-velocity segment.", medianDays)
	case medianDays <= 45:
		sd.Velocity = "NORMAL"
		sd.VelocityDetail = fmt.Sprintf("Median %d days to sale: standard velocity.", medianDays)
	default:
		sd.Velocity = "SLOW"
		sd.VelocityDetail = fmt.Sprintf("Median %d days to sale: sluggish segment.", medianDays)
	}
	return sd
}

func medianInt(sorted []int) int {
	if len(sorted) == 0 {
		return defaultMedianDays
	}
	return sorted[len(sorted)/2]
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// stdDev is the sample standard deviation
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func roundToHundred(v float64) float64 {
	return math.Round(v/100) * 100
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
