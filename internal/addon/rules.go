package addon

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Item is a consumable that a rule adds to an estimate.
type Item struct {
	PartName   string          `json:"part_name" yaml:"part_name" validate:"required"`
	PartNumber string          `json:"part_number" yaml:"part_number" validate:"required"`
	Category   string          `json:"category" yaml:"category"`
	Price      decimal.Decimal `json:"price" yaml:"-"`
	Reason     string          `json:"reason" yaml:"reason"`
}

// Rule fires when any keyword appears in the job text.
type Rule struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Keywords []string `json:"keywords" yaml:"keywords" validate:"min=1,dive,required"`
	Items    []Item   `json:"items" yaml:"items" validate:"min=1,dive"`
}

func item(name, number, category, price, reason string) Item {
	return Item{
		PartName:   name,
		PartNumber: number,
		Category:   category,
		Price:      decimal.RequireFromString(price),
		Reason:     reason,
	}
}

// DefaultRules returns a fresh copy of the built-in rule table. Rules are
// evaluated in the order returned.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "plenum_removal",
			Keywords: []string{"plenum removal", "intake manifold removal", "remove plenum", "remove intake manifold"},
			Items: []Item{
				item("Intake Plenum Gasket", "PLN-GSK-001", "gaskets", "24.99", "Plenum must be resealed after removal"),
				item("Intake Manifold Gasket Set", "INT-GSK-SET", "gaskets", "34.99", "Required for manifold reassembly"),
			},
		},
		{
			Name:     "valve_cover",
			Keywords: []string{"valve cover", "remove valve cover", "valve cover gasket"},
			Items: []Item{
				item("Valve Cover Gasket", "VC-GSK-001", "gaskets", "28.99", "Always replace when removing valve cover"),
				item("Spark Plug Tube Seals", "SP-SEAL-SET", "seals", "18.99", "Prevents oil leaks into spark plug wells"),
			},
		},
		{
			Name:     "brake_service",
			Keywords: []string{"brake pad", "brake service", "brake rotor", "brake caliper", "replace pads"},
			Items: []Item{
				item("Brake Cleaner", "BC-CLN-001", "consumables", "8.99", "Required for proper brake pad installation"),
				item("Anti-Seize Compound", "AS-CMP-001", "consumables", "12.99", "Prevents caliper slide pin seizure"),
				item("Brake Hardware Kit", "BRK-HW-KIT", "hardware", "15.99", "Includes clips and springs for proper operation"),
			},
		},
		{
			Name:     "coolant_system",
			Keywords: []string{"coolant flush", "radiator flush", "thermostat", "water pump", "coolant leak"},
			Items: []Item{
				item("Coolant/Antifreeze (1 gal)", "CLT-AF-001", "fluids", "24.99", "System refill after service"),
				item("Radiator Cap", "RAD-CAP-001", "parts", "12.99", "Inspect/replace when servicing cooling system"),
				item("Thermostat Gasket", "THM-GSK-001", "gaskets", "8.99", "Required when replacing thermostat"),
			},
		},
		{
			Name:     "oil_change",
			Keywords: []string{"oil change", "engine oil", "oil filter"},
			Items: []Item{
				item("Drain Plug Gasket", "DRN-GSK-001", "gaskets", "2.99", "Replace every oil change to prevent leaks"),
			},
		},
		{
			Name:     "timing_belt",
			Keywords: []string{"timing belt", "timing chain", "timing tensioner"},
			Items: []Item{
				item("Timing Belt Tensioner", "TM-TNS-001", "parts", "89.99", "Always replace with timing belt"),
				item("Timing Belt Idler Pulley", "TM-IDL-001", "parts", "34.99", "Wear item - replace with belt"),
				item("Water Pump", "WP-001", "parts", "79.99", "Recommended replacement - already accessible"),
			},
		},
		{
			Name:     "transmission_service",
			Keywords: []string{"transmission fluid", "trans flush", "transmission service", "atf"},
			Items: []Item{
				item("Transmission Filter Kit", "TRS-FLT-KIT", "filters", "45.99", "Replace filter when servicing transmission"),
				item("Transmission Pan Gasket", "TRS-PAN-GSK", "gaskets", "18.99", "Replace when removing pan"),
			},
		},
		{
			Name:     "exhaust_work",
			Keywords: []string{"exhaust", "catalytic converter", "muffler", "exhaust manifold"},
			Items: []Item{
				item("Exhaust Gasket", "EXH-GSK-001", "gaskets", "14.99", "Required for exhaust connections"),
				item("Exhaust Bolts/Studs Kit", "EXH-HW-KIT", "hardware", "22.99", "Often corroded and break during removal"),
			},
		},
		{
			Name:     "suspension",
			Keywords: []string{"strut", "shock", "control arm", "ball joint", "tie rod"},
			Items: []Item{
				item("Alignment Service", "SVC-ALIGN", "labor", "89.99", "Required after suspension work"),
			},
		},
		{
			Name:     "ac_service",
			Keywords: []string{"ac", "a/c", "hvac", "air conditioning", "compressor", "condenser", "evaporator"},
			Items: []Item{
				item("R-134a Refrigerant", "AC-R134A", "fluids", "45.99", "System recharge after repair"),
				item("AC O-Ring Kit", "AC-ORING-KIT", "seals", "18.99", "Replace seals to prevent leaks"),
				item("PAG Oil", "AC-PAG-OIL", "fluids", "22.99", "Required for compressor lubrication"),
			},
		},
	}
}

// ruleFile is the on-disk YAML layout. Prices are strings so they parse
// exactly into decimals.
type ruleFile struct {
	Rules []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
		Items    []struct {
			Item  `yaml:",inline"`
			Price string `yaml:"price"`
		} `yaml:"items"`
	} `yaml:"rules"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadRules reads a rule table from a YAML file. Every rule needs a name,
// at least one keyword and at least one item with a non-negative price.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "addon: read rules %s", path)
	}
	return ParseRules(data)
}

// ParseRules decodes a YAML rule table.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "addon: parse rules")
	}
	if len(f.Rules) == 0 {
		return nil, eris.New("addon: rule file has no rules")
	}

	rules := make([]Rule, 0, len(f.Rules))
	for _, fr := range f.Rules {
		r := Rule{Name: fr.Name, Keywords: fr.Keywords}
		for _, fi := range fr.Items {
			price, err := decimal.NewFromString(fi.Price)
			if err != nil {
				return nil, eris.Wrapf(err, "addon: rule %q item %q price", fr.Name, fi.PartNumber)
			}
			if price.IsNegative() {
				return nil, eris.Errorf("addon: rule %q item %q has negative price", fr.Name, fi.PartNumber)
			}
			it := fi.Item
			it.Price = price
			r.Items = append(r.Items, it)
		}
		if err := validate.Struct(r); err != nil {
			return nil, eris.Wrapf(err, "addon: rule %q", fr.Name)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
