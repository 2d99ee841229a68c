// Command genmock writes synthetic NOAA CO-OPS exports for the four series
// kinds, in the same loose layout the CO-OPS site produces: a space after each
// comma, a trailing empty header cell on monthly files, and split date and time
// fields with trailing extras on visibility rows. Each file is read back
// through the real loader and normalizer before the command exits.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock -samples 240
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/adapter/csvsource"
	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
)

var baseDate = time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC)

const cadence = 6 * time.Minute

type fileDef struct {
	station string
	kind    domain.SeriesKind
	write   func(w *bufio.Writer, rng *rand.Rand, samples int)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write the CSV files to")
	samples := flag.Int("samples", 240, "six-minute readings per time series file")
	months := flag.Int("months", 24, "rows in the monthly water level file")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if *samples < 1 || *months < 1 {
		return fmt.Errorf("-samples and -months must be positive")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	defs := []fileDef{
		{station: "CFR1624", kind: domain.KindCurrent, write: writeCurrent},
		{station: "8724580", kind: domain.KindWind, write: writeWind},
		{station: "8540433", kind: domain.KindMonthlyLevel, write: func(w *bufio.Writer, rng *rand.Rand, _ int) {
			writeMonthlyLevel(w, rng, *months)
		}},
		{station: "8453662", kind: domain.KindVisibility, write: writeVisibility},
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	for _, d := range defs {
		name := fmt.Sprintf("CO-OPS__%s__%s.csv", d.station, d.kind.Suffix())
		path := filepath.Join(*outDir, name)
		if err := writeFile(path, func(w *bufio.Writer) { d.write(w, rng, *samples) }); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		rows, err := verify(path)
		if err != nil {
			return fmt.Errorf("verifying %s: %w", name, err)
		}
		log.Printf("%s: %d rows", name, rows)
	}
	return nil
}

func writeFile(path string, fill func(w *bufio.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fill(w)
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// verify runs the file through the loader and normalizer the CLI uses.
func verify(path string) (int, error) {
	src, err := domain.DescribePath(path, false)
	if err != nil {
		return 0, err
	}
	raw, err := csvsource.NewLoader().Load(context.Background(), src)
	if err != nil {
		return 0, err
	}
	t, err := domain.Normalize(src, raw)
	if err != nil {
		return 0, err
	}
	return t.Len(), nil
}

// tidal models a semidiurnal signal with period ~12.42h.
func tidal(t time.Time) float64 {
	hours := t.Sub(baseDate).Hours()
	return math.Sin(2 * math.Pi * hours / 12.42)
}

func writeCurrent(w *bufio.Writer, rng *rand.Rand, samples int) {
	fmt.Fprintln(w, "Date Time, Speed, Dir")
	for i := range samples {
		t := baseDate.Add(time.Duration(i) * cadence)
		// roughly one reading in fifty is missing, as in real exports
		if rng.IntN(50) == 0 {
			fmt.Fprintf(w, "%s, , \n", t.Format("2006-01-02 15:04"))
			continue
		}
		phase := tidal(t)
		speed := math.Abs(1.6*phase) + rng.Float64()*0.1
		dir := 5.0 // flood
		if phase < 0 {
			dir = 185 // ebb
		}
		fmt.Fprintf(w, "%s, %.3f, %.0f\n", t.Format("2006-01-02 15:04"), speed, dir)
	}
}

func writeWind(w *bufio.Writer, rng *rand.Rand, samples int) {
	fmt.Fprintln(w, "Date Time, Speed, Dir, Gust, X, R ")
	speed := 3.0
	for i := range samples {
		t := baseDate.Add(time.Duration(i) * cadence)
		speed = math.Max(0, speed+rng.NormFloat64()*0.3)
		gust := speed + 1 + rng.Float64()*2
		dir := rng.IntN(360)
		fmt.Fprintf(w, "%s, %.1f, %d, %.1f, 0, 0\n", t.Format("2006-01-02 15:04"), speed, dir, gust)
	}
}

func writeMonthlyLevel(w *bufio.Writer, rng *rand.Rand, months int) {
	fmt.Fprintln(w, "Year, Month, Highest, MHHW, MHW, MSL, MTL, MLW, MLLW, Lowest, Inf, ")
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range months {
		m := start.AddDate(0, i, 0)
		seasonal := 0.05 * math.Sin(2*math.Pi*float64(m.Month()-1)/12)
		msl := 0.93 + seasonal + rng.NormFloat64()*0.01
		mhhw := msl + 0.98
		mhw := msl + 0.88
		mtl := msl + 0.02
		mlw := msl - 0.85
		mllw := msl - 0.94
		highest := mhhw + 0.3 + rng.Float64()*0.4
		lowest := mllw - 0.5 - rng.Float64()*0.4
		fmt.Fprintf(w, "%d, %d, %.3f, %.3f, %.3f, %.3f, %.3f, %.3f, %.3f, %.3f, 0\n",
			m.Year(), int(m.Month()), highest, mhhw, mhw, msl, mtl, mlw, mllw, lowest)
	}
}

func writeVisibility(w *bufio.Writer, rng *rand.Rand, samples int) {
	fmt.Fprintln(w, "Date Time, Visibility")
	vis := 10.0
	for i := range samples {
		t := baseDate.Add(time.Duration(i) * cadence)
		vis = math.Min(10.8, math.Max(0.1, vis+rng.NormFloat64()*0.2))
		if i == 0 {
			fmt.Fprintf(w, "%s, %s, %.1f, extra1, extra2\n", t.Format("2006-01-02"), t.Format("15:04"), vis)
			continue
		}
		fmt.Fprintf(w, "%s, %s, %.1f, , \n", t.Format("2006-01-02"), t.Format("15:04"), vis)
	}
}
