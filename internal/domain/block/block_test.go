package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/logistics"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
)

func TestIDForPosition(t *testing.T) {
	assert.Equal(t, "0,0", block.IDForPosition(production.Position{X: 3, Y: 31.9}))
	assert.Equal(t, "1,-1", block.IDForPosition(production.Position{X: 40, Y: -0.5}))
}

func TestBlock_Stock(t *testing.T) {
	b := block.Block{
		Items:  map[string]float64{"coal": 10},
		Fluids: map[string]float64{"water": 2500},
	}

	stock := b.Stock()

	assert.Equal(t, 10.0, stock[colon.Item("coal")])
	assert.Equal(t, 2500.0, stock[colon.Fluid("water")])
}

func TestDefaultClassification(t *testing.T) {
	// Arrange
	ore := colon.Item("iron-ore")
	plate := colon.Item("iron-plate")
	gear := colon.Item("iron-gear-wheel")
	coal := colon.Item("coal")
	b := block.Block{
		Stations: []logistics.Station{
			{
				Name: "Gears [item=iron-gear-wheel]",
				Combinator: []logistics.Signal{
					{Type: logistics.SignalItem, Name: "iron-ore", Count: -400},
					{Type: logistics.SignalItem, Name: "iron-gear-wheel", Count: -5},
				},
			},
		},
		Classification: colon.Classification{coal: colon.IntentIgnore},
	}
	actions := []production.Action{
		{Inputs: colon.NewSet(ore, coal), Outputs: colon.NewSet(plate)},
		{Inputs: colon.NewSet(plate), Outputs: colon.NewSet(gear)},
	}

	// Act
	classification := block.DefaultClassification(b, actions)

	// Assert
	assert.Equal(t, colon.IntentImport, classification[ore])
	assert.Equal(t, colon.IntentInternal, classification[plate])
	assert.Equal(t, colon.IntentExport, classification[gear])
	assert.Equal(t, colon.IntentIgnore, classification[coal])
}
