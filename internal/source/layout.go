// Package source reads bridge models from the spreadsheets and CSV exports
// produced by the structural analysis, and turns them into the node,
// connectivity and field inputs of the renderer.
package source

const (
	FormatExcel = "excel"
	FormatCSV   = "csv"
)

// DefaultVariables are the displacement and rotation components exported for
// every node.
var DefaultVariables = []string{"U1", "U2", "U3", "R1", "R2", "R3"}

const DefaultSteps = 5

// Layout locates every input table.
type Layout struct {
	Format    string      `yaml:"format" json:"format" validate:"oneof=excel csv demo"`
	Variables []string    `yaml:"variables" json:"variables" validate:"dive,required"`
	Steps     int         `yaml:"steps" json:"steps" validate:"gte=0"`
	Excel     ExcelLayout `yaml:"excel" json:"excel"`
	CSV       CSVLayout   `yaml:"csv" json:"csv"`
}

// ExcelLayout uses 1-based spreadsheet rows and column letters.
type ExcelLayout struct {
	Geometry      string `yaml:"geometry" json:"geometry"`
	Data          string `yaml:"data" json:"data"`
	GeometrySheet string `yaml:"geometry_sheet" json:"geometry_sheet" validate:"required"`
	ConnCol       string `yaml:"conn_col" json:"conn_col" validate:"required,alpha"`
	ConnRow       int    `yaml:"conn_row" json:"conn_row" validate:"gte=1"`
	NodeCol       string `yaml:"node_col" json:"node_col" validate:"required,alpha"`
	NodeRow       int    `yaml:"node_row" json:"node_row" validate:"gte=1"`
	MaxRows       int    `yaml:"max_rows" json:"max_rows" validate:"gte=0"`
	FieldSheet    string `yaml:"field_sheet" json:"field_sheet" validate:"required"`
	FieldRow      int    `yaml:"field_row" json:"field_row" validate:"gte=1"`
	// FieldCol holds variable 0 at step 0; variable p at step t sits
	// p + t*len(Variables) columns to its right.
	FieldCol     string   `yaml:"field_col" json:"field_col" validate:"required,alpha"`
	SensorSheet  string   `yaml:"sensor_sheet" json:"sensor_sheet"`
	SensorRow    int      `yaml:"sensor_row" json:"sensor_row" validate:"gte=1"`
	SeriesSheets []string `yaml:"series_sheets" json:"series_sheets"`
}

// CSVLayout describes semicolon separated exports.
type CSVLayout struct {
	Nodes        string `yaml:"nodes" json:"nodes"`
	Heatmap      string `yaml:"heatmap" json:"heatmap"`
	Sensors      string `yaml:"sensors" json:"sensors"`
	Series       string `yaml:"series" json:"series"`
	Separator    string `yaml:"separator" json:"separator" validate:"len=1"`
	DecimalComma bool   `yaml:"decimal_comma" json:"decimal_comma"`
}

func DefaultExcelLayout() ExcelLayout {
	return ExcelLayout{
		Geometry:      "data.xlsx",
		Data:          "Data_.xlsx",
		GeometrySheet: "Sheet1",
		ConnCol:       "A",
		ConnRow:       5,
		NodeCol:       "I",
		NodeRow:       6,
		MaxRows:       1882,
		FieldSheet:    "Variables for 5 Timesteps",
		FieldRow:      2,
		FieldCol:      "B",
		SensorSheet:   "Sensor Location",
		SensorRow:     3,
		SeriesSheets:  []string{"Accelerometer Data", "Strain Gauge Data"},
	}
}

func DefaultCSVLayout() CSVLayout {
	return CSVLayout{
		Nodes:        "nodes_animated.csv",
		Separator:    ";",
		DecimalComma: true,
	}
}

func DefaultLayout() Layout {
	return Layout{
		Format:    FormatExcel,
		Variables: append([]string(nil), DefaultVariables...),
		Steps:     DefaultSteps,
		Excel:     DefaultExcelLayout(),
		CSV:       DefaultCSVLayout(),
	}
}
