package testutil

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

// SampleData is an excerpt of auto-mpg.data in the original layout:
// eight whitespace-separated columns then a tab and the quoted car name.
// Row 4 (ford pinto) has an unknown horsepower.
const SampleData = `18.0   8   307.0      130.0      3504.      12.0   70  1	"chevrolet chevelle malibu"
15.0   8   350.0      165.0      3693.      11.5   70  1	"buick skylark 320"
24.0   4   113.0      95.00      2372.      15.0   70  3	"toyota corona mark ii"
26.0   4   97.00      46.00      1835.      20.5   70  2	"volkswagen 1131 deluxe sedan"
25.0   4   98.00      ?          2046.      19.0   71  1	"ford pinto"
27.0   4   97.00      88.00      2130.      14.5   71  3	"datsun pl510"
31.0   4   71.00      65.00      1773.      19.0   71  3	"toyota corolla 1200"
30.0   4   79.00      70.00      2074.      19.5   71  2	"peugeot 304"
29.0   4   97.00      75.00      2171.      16.0   75  3	"toyota corolla"
33.5   4   85.00      70.00      1945.      16.8   77  3	"datsun f-10 hatchback"
21.5   4   121.0      110.0      2600.      12.8   77  2	"bmw 320i"
36.1   4   91.00      60.00      1800.      16.4   78  3	"honda civic cvcc"
29.5   4   98.00      68.00      2135.      16.6   78  3	"honda accord lx"
20.2   6   232.0      90.00      3265.      18.2   79  1	"amc concord dl 6"
44.6   4   91.00      67.00      1850.      13.8   80  3	"honda civic 1500 gl"
25.4   6   168.0      116.0      2900.      12.6   81  3	"toyota cressida"
44.0   4   97.00      52.00      2130.      24.6   82  2	"vw pickup"
17.0   8   302.0      140.0      3449.      10.5   70  1	"ford torino"
`

// SampleRows is the number of records in SampleData.
const SampleRows = 18

// SampleDataset parses SampleData into a base table.
func SampleDataset(t testing.TB) *dataset.Dataset {
	t.Helper()
	recs, err := dataset.Parse(strings.NewReader(SampleData))
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return dataset.FromRecords("sample", recs)
}
