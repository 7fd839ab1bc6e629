package types

// Standard table names for Pantry.GetTable.
const (
	FoodsTable = "foods"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	FoodsTable,
}
