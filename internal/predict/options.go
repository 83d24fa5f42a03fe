package predict

import (
	"context"

	"github.com/yourorg/valuation-api/pricer"
)

// Fixed defaults shown when a category cannot be sourced live. Each
// category degrades independently; one empty list upstream never drags the
// others down to defaults.
var fallbackOptions = pricer.OptionLists{
	BodyTypes:     []string{"Sedan", "SUV", "Hatchback", "Truck"},
	FuelTypes:     []string{"Gasoline", "Diesel", "Electric", "Hybrid"},
	Transmissions: []string{"Automatic", "Manual"},
	States:        []string{"NY", "CA", "TX", "FL"},
	DriveTypes:    []string{"FWD", "RWD", "AWD"},
	OwnerTypes:    []string{"First", "Second", "Third", "Fourth & Above"},
	SteeringTypes: []string{"Power", "Electric", "Manual"},
	UTypes:        []string{"Used", "New"},
}

// FallbackOptions returns a copy of the full default option set.
func FallbackOptions() pricer.OptionLists {
	return ResolveOptions(pricer.OptionLists{})
}

// ResolveOptions fills every empty category of fetched with its fallback
// list, leaving populated categories untouched.
func ResolveOptions(fetched pricer.OptionLists) pricer.OptionLists {
	return pricer.OptionLists{
		BodyTypes:     orFallback(fetched.BodyTypes, fallbackOptions.BodyTypes),
		FuelTypes:     orFallback(fetched.FuelTypes, fallbackOptions.FuelTypes),
		Transmissions: orFallback(fetched.Transmissions, fallbackOptions.Transmissions),
		States:        orFallback(fetched.States, fallbackOptions.States),
		DriveTypes:    orFallback(fetched.DriveTypes, fallbackOptions.DriveTypes),
		OwnerTypes:    orFallback(fetched.OwnerTypes, fallbackOptions.OwnerTypes),
		SteeringTypes: orFallback(fetched.SteeringTypes, fallbackOptions.SteeringTypes),
		UTypes:        orFallback(fetched.UTypes, fallbackOptions.UTypes),
	}
}

func orFallback(live, def []string) []string {
	if len(live) > 0 {
		return append([]string(nil), live...)
	}
	return append([]string(nil), def...)
}

// OptionsSource provides raw option payloads. *pricer.Client satisfies it.
type OptionsSource interface {
	FetchOptions(ctx context.Context) ([]byte, error)
}

// LoadOptions fetches the live option lists and resolves fallbacks. On a
// fetch or shape failure the entire set degrades to defaults; the error is
// returned for a non-blocking warning, never as a hard failure.
func LoadOptions(ctx context.Context, src OptionsSource) (pricer.OptionLists, error) {
	raw, err := src.FetchOptions(ctx)
	if err != nil {
		return FallbackOptions(), err
	}
	fetched, err := pricer.MapOptionsPayload(raw)
	if err != nil {
		return FallbackOptions(), err
	}
	return ResolveOptions(fetched), nil
}
