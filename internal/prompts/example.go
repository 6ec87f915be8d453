package prompts

import "fmt"

// ExampleProfileFile is the embedded sample knowledge base offered to users
// who have no profile of their own yet.
const ExampleProfileFile = "knowledge-base-example.json"

// ExampleProfile returns the raw sample knowledge base.
func ExampleProfile() []byte {
	data, err := promptFiles.ReadFile(ExampleProfileFile)
	if err != nil {
		panic(fmt.Sprintf("failed to load example profile: %v", err))
	}
	return data
}
