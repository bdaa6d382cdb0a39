package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client menucatalog mcp --catalog menu.json")
		os.Exit(2)
	}

	ctx := context.Background()

	cmd := exec.Command(args[0], args[1:]...)
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "menucatalog-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to menucatalog MCP server!")
	fmt.Println("Available commands:")
	fmt.Println("  /tools                 - List available tools")
	fmt.Println("  /categories            - List menu categories")
	fmt.Println("  /category <name>       - Show one category (All for everything)")
	fmt.Println("  /login <user> <pass>   - Sign in")
	fmt.Println("  /add <item id>         - Add an item to the cart")
	fmt.Println("  /cart                  - Show the cart")
	fmt.Println("  /exit                  - Exit the client")
	fmt.Println("  <text>                 - Search the menu")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch {
		case input == "/exit":
			fmt.Println("Goodbye!")
			return

		case input == "/tools":
			listTools(ctx, session)

		case input == "/categories":
			callTool(ctx, session, "list_categories", map[string]interface{}{})

		case strings.HasPrefix(input, "/category "):
			callTool(ctx, session, "filter_menu", map[string]interface{}{
				"category": strings.TrimSpace(strings.TrimPrefix(input, "/category ")),
			})

		case strings.HasPrefix(input, "/login"):
			parts := strings.Fields(input)
			if len(parts) != 3 {
				fmt.Println("usage: /login <user> <pass>")
				continue
			}
			callTool(ctx, session, "login", map[string]interface{}{
				"username": parts[1],
				"password": parts[2],
			})

		case strings.HasPrefix(input, "/add "):
			callTool(ctx, session, "add_to_cart", map[string]interface{}{
				"item_id": strings.TrimSpace(strings.TrimPrefix(input, "/add ")),
			})

		case input == "/cart":
			callTool(ctx, session, "view_cart", map[string]interface{}{})

		default:
			callTool(ctx, session, "search_menu", map[string]interface{}{
				"query": input,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("Available Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, toolName string, args map[string]interface{}) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		log.Printf("Error calling tool: %v", err)
		return
	}

	printResult(result)
}

func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Printf("❌ Error: ")
	} else {
		fmt.Printf("✅ Result: ")
	}

	// Structured output is easier to read than the text echo.
	if result.StructuredContent != nil {
		if data, err := json.MarshalIndent(result.StructuredContent, "", "  "); err == nil {
			fmt.Println(string(data))
			fmt.Println()
			return
		}
	}

	for _, content := range result.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			fmt.Println(v.Text)
		default:
			jsonData, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				fmt.Printf("%+v\n", content)
			} else {
				fmt.Println(string(jsonData))
			}
		}
	}
	fmt.Println()
}
