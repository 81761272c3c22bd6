/*
	Generates a synthetic runner database file for manual testing, including
	tombstoned and blank slots so the loader's skip paths get exercised.
*/

package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/dvoa-timing/runnerdb/internal/record"
)

var firstNames = []string{
	"Jane", "John", "Johnny", "Sam", "Anna", "Erik", "Maria", "Lars",
	"Ingrid", "Per", "Karin", "Olle", "Sofia", "Mats", "Elin", "Nils",
}

var lastNames = []string{
	"Doe", "Smith", "Johnson", "Appleseed", "Lindqvist", "Berg", "Nilsson",
	"Karlsson", "Andersson", "Holm", "Svensson", "Lund", "Eriksson",
}

var nationalities = []string{"USA", "SWE", "NOR", "FIN", "DEN", ""}

func main() {
	out := flag.String("out", "database.wpersons", "Output file path")
	count := flag.Int("count", 2000, "Number of runner slots to generate")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	data := record.EncodeHeader()
	removed, blank := 0, 0

	for i := 0; i < *count; i++ {
		switch {
		case rng.Intn(50) == 0:
			// Slot that was allocated but never filled in.
			data = append(data, make([]byte, record.SlotSize)...)
			blank++
			continue
		case rng.Intn(20) == 0:
			r := randomRunner(rng, i)
			r.Removed = true
			data = append(data, record.Encode(r)...)
			removed++
			continue
		}
		data = append(data, record.Encode(randomRunner(rng, i))...)
	}

	if err := os.WriteFile(*out, data, 0644); err != nil {
		fmt.Println("write error:", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d slots (%d removed, %d blank), %d bytes\n",
		*out, *count, removed, blank, len(data))
}

func randomRunner(rng *rand.Rand, i int) record.Runner {
	r := record.Runner{
		ExternalID: int64(i + 1),
		FirstName:  firstNames[rng.Intn(len(firstNames))],
		LastName:   lastNames[rng.Intn(len(lastNames))],
	}
	if rng.Intn(4) > 0 {
		r.CardNumber = 400000 + rng.Intn(99999)
	}
	if rng.Intn(3) > 0 {
		r.ClubNumber = 1 + rng.Intn(200)
	}
	if rng.Intn(5) > 0 {
		r.BirthYear = 1940 + rng.Intn(80)
	}
	switch rng.Intn(3) {
	case 0:
		r.Sex = record.SexMale
	case 1:
		r.Sex = record.SexFemale
	}
	r.Nationality = nationalities[rng.Intn(len(nationalities))]
	return r
}
