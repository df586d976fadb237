package record

import "fmt"

const (
	BaseTimestampMillis = 1672531200000 // 2023-01-01T00:00:00Z
	PartitionFanOut     = 4
	SymbolCount         = 100

	PriceScale     = 4
	MarketCapScale = 2

	basePrice     = 100000
	priceRange    = 500000
	spread        = 100
	baseVolume    = 1000
	baseMarketCap = 1000000000
)

var sectors = []string{"Technology", "Healthcare", "Financial", "Energy", "Consumer"}

// Field names used by generated records.
const (
	FieldID        = "id"
	FieldSymbol    = "symbol"
	FieldTimestamp = "timestamp"
	FieldPrice     = "price"
	FieldVolume    = "volume"
	FieldBid       = "bid"
	FieldAsk       = "ask"
	FieldSector    = "sector"
	FieldMarketCap = "market_cap"
)

// Generate deterministically builds the trading record for index. Equal indices always
// produce equal records and no state is shared between calls.
func Generate(index int) *Record {
	i := int64(index)
	ts := BaseTimestampMillis + i*1000
	price := basePrice + (i*10)%priceRange

	return &Record{
		Fields: map[string]FieldValue{
			FieldID:        Integer(i),
			FieldSymbol:    String(Symbol(index)),
			FieldTimestamp: Integer(ts),
			FieldPrice:     ScaledInteger{Value: price, Scale: PriceScale},
			FieldVolume:    Integer(baseVolume + i*10),
			FieldBid:       ScaledInteger{Value: price - spread, Scale: PriceScale},
			FieldAsk:       ScaledInteger{Value: price + spread, Scale: PriceScale},
			FieldSector:    String(sectors[index%len(sectors)]),
			FieldMarketCap: ScaledInteger{Value: baseMarketCap + i*1000000, Scale: MarketCapScale},
		},
		Timestamp: ts,
		Offset:    i,
		Partition: int32(index % PartitionFanOut),
		Headers:   map[string]string{},
	}
}

// Symbol returns the ticker assigned to index.
func Symbol(index int) string {
	return fmt.Sprintf("STOCK%04d", index%SymbolCount)
}

// GenerateRange returns the records for indices [from, to).
func GenerateRange(from, to int) []*Record {
	if to <= from {
		return []*Record{}
	}
	out := make([]*Record, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, Generate(i))
	}
	return out
}
