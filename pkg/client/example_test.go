package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/designlab-hq/designlab/pkg/client"
)

// Example demonstrates basic usage of the DesignLab client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.designlab.example",
	})

	ctx := context.Background()

	result, err := c.Login(ctx, "user@example.com", "password")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Logged in as: %s\n", result.User.Email)

	projects, err := c.Projects().List(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Found %d projects\n", len(projects.Data))
}

// ExampleDoubleDiamondService_Generate walks a project through one phase
func ExampleDoubleDiamondService_Generate() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.designlab.example",
	})
	c.SetToken("your-access-token")

	ctx := context.Background()

	p, err := c.DoubleDiamond().Generate(ctx, 42, "discover")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Phase: %s (%d%%)\n", p.CurrentPhase, p.CompletionPercentage)
}

// ExampleAPIError shows how to react to plan-limit errors
func ExampleAPIError() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.designlab.example",
	})
	c.SetToken("your-access-token")

	_, err := c.Projects().Create(context.Background(), client.CreateProjectRequest{Name: "New Project"})
	if apiErr, ok := err.(*client.APIError); ok && apiErr.IsLimitExceeded() {
		fmt.Println("Plan limit reached; time to upgrade")
	}
}
