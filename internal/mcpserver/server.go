package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"menucatalog/internal/catalog"
	"menucatalog/internal/database/relational"
	"menucatalog/internal/metric"
	"menucatalog/internal/output"
	"menucatalog/internal/store"
)

// MenuStore is the part of the store the tools need.
type MenuStore interface {
	store.Store
	Login(ctx context.Context, username, password string) error
	Cart(ctx context.Context) ([]relational.CartLine, error)
}

// Server exposes the menu catalog as MCP tools.
type Server struct {
	mcpServer *mcp.Server
	store     MenuStore
	prices    catalog.PriceFormatter
	recorder  metric.Recorder
	log       *zap.Logger
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
	Prices        catalog.PriceFormatter
}

// NewServer creates a new MCP server over s.
func NewServer(cfg Config, s MenuStore, rec metric.Recorder, log *zap.Logger) (*Server, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "menucatalog"
	}
	if rec == nil {
		rec = metric.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}
	srv := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		store:     s,
		prices:    cfg.Prices,
		recorder:  rec,
		log:       log.Named("mcp"),
	}
	srv.registerTools()
	return srv, nil
}

// MenuItemResult is a menu item with its display price.
type MenuItemResult struct {
	ID          string `json:"id"`
	ItemName    string `json:"itemname"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       string `json:"price" jsonschema:"decimal price"`
	PriceText   string `json:"price_text" jsonschema:"price formatted as local currency"`
	Image       string `json:"image,omitempty"`
}

// MenuResult wraps a list of items.
type MenuResult struct {
	Items []MenuItemResult `json:"items"`
	Count int              `json:"count"`
}

type SearchMenuArgs struct {
	Query string `json:"query" jsonschema:"case-insensitive text matched against name, category and description"`
}

type FilterMenuArgs struct {
	Category string `json:"category" jsonschema:"category name, or All for the whole menu"`
}

type ListCategoriesArgs struct{}

type CategoriesResult struct {
	Categories []string `json:"categories"`
}

type LoginArgs struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	User string `json:"user"`
}

type AddToCartArgs struct {
	ItemID string `json:"item_id" jsonschema:"id of the menu item to add"`
}

// AddToCartResult reports either the addition or the login redirect.
type AddToCartResult struct {
	Added    bool   `json:"added"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty" jsonschema:"set to /login when the caller must sign in first"`
}

type ViewCartArgs struct{}

type CartResult struct {
	Lines     []output.CartRow `json:"lines"`
	ItemCount int              `json:"item_count"`
	Total     string           `json:"total"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_menu",
		Description: "Search menu items by text. Matches item name, category and description, case-insensitively.",
	}, s.handleSearchMenu)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "filter_menu",
		Description: "List menu items in one category. Use All for the full menu.",
	}, s.handleFilterMenu)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_categories",
		Description: "List menu categories in menu order, starting with All.",
	}, s.handleListCategories)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "login",
		Description: "Sign in so items can be added to the cart.",
	}, s.handleLogin)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add one unit of a menu item to the signed-in user's cart. Returns a /login redirect when nobody is signed in.",
	}, s.handleAddToCart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "view_cart",
		Description: "Show the signed-in user's cart with line totals and the grand total.",
	}, s.handleViewCart)
}

func (s *Server) items() ([]catalog.MenuItem, error) {
	snap := s.store.Snapshot()
	if snap.Error != "" {
		return nil, fmt.Errorf("menu unavailable: %s", snap.Error)
	}
	if snap.Loading && snap.MenuItems == nil {
		return nil, errors.New("menu is still loading")
	}
	return snap.MenuItems, nil
}

func (s *Server) toResult(items []catalog.MenuItem) MenuResult {
	out := MenuResult{Items: make([]MenuItemResult, 0, len(items)), Count: len(items)}
	for _, it := range items {
		out.Items = append(out.Items, MenuItemResult{
			ID:          it.Key(),
			ItemName:    it.ItemName,
			Description: it.Description,
			Category:    it.Category,
			Price:       it.Price.StringFixed(2),
			PriceText:   s.prices.Format(it.Price),
			Image:       it.Image,
		})
	}
	return out
}

func (s *Server) handleSearchMenu(ctx context.Context, _ *mcp.CallToolRequest, args SearchMenuArgs) (*mcp.CallToolResult, MenuResult, error) {
	items, err := s.items()
	if err != nil {
		return nil, MenuResult{}, err
	}
	s.recorder.Search()
	return nil, s.toResult(catalog.Search(items, args.Query)), nil
}

func (s *Server) handleFilterMenu(ctx context.Context, _ *mcp.CallToolRequest, args FilterMenuArgs) (*mcp.CallToolResult, MenuResult, error) {
	items, err := s.items()
	if err != nil {
		return nil, MenuResult{}, err
	}
	category := strings.TrimSpace(args.Category)
	if category == "" {
		category = catalog.AllCategories
	}
	s.recorder.CategoryFilter(category)
	return nil, s.toResult(catalog.FilterByCategory(items, category)), nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *mcp.CallToolRequest, _ ListCategoriesArgs) (*mcp.CallToolResult, CategoriesResult, error) {
	items, err := s.items()
	if err != nil {
		return nil, CategoriesResult{}, err
	}
	return nil, CategoriesResult{Categories: catalog.Categories(items)}, nil
}

func (s *Server) handleLogin(ctx context.Context, _ *mcp.CallToolRequest, args LoginArgs) (*mcp.CallToolResult, LoginResult, error) {
	if err := s.store.Login(ctx, args.Username, args.Password); err != nil {
		return nil, LoginResult{}, err
	}
	return nil, LoginResult{User: args.Username}, nil
}

func (s *Server) handleAddToCart(ctx context.Context, _ *mcp.CallToolRequest, args AddToCartArgs) (*mcp.CallToolResult, AddToCartResult, error) {
	snap := s.store.Snapshot()
	if !snap.IsAuthenticated {
		s.recorder.LoginRedirect()
		return nil, AddToCartResult{Message: "sign in first", Redirect: "/login"}, nil
	}

	var item *catalog.MenuItem
	for i := range snap.MenuItems {
		if snap.MenuItems[i].Key() == args.ItemID {
			item = &snap.MenuItems[i]
			break
		}
	}
	if item == nil {
		return nil, AddToCartResult{}, fmt.Errorf("%w: %s", store.ErrUnknownItem, args.ItemID)
	}

	if err := s.store.AddToCart(ctx, *item); err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			s.recorder.LoginRedirect()
			return nil, AddToCartResult{Message: "sign in first", Redirect: "/login"}, nil
		}
		return nil, AddToCartResult{}, err
	}
	s.log.Info("tool added item to cart", zap.String("item", item.Key()))
	return nil, AddToCartResult{Added: true, Message: "Added " + item.ItemName + " to cart"}, nil
}

func (s *Server) handleViewCart(ctx context.Context, _ *mcp.CallToolRequest, _ ViewCartArgs) (*mcp.CallToolResult, CartResult, error) {
	lines, err := s.store.Cart(ctx)
	if err != nil {
		return nil, CartResult{}, err
	}
	sum := output.BuildCartSummary(lines, s.prices)
	rows := sum.Rows
	if rows == nil {
		rows = []output.CartRow{}
	}
	return nil, CartResult{Lines: rows, ItemCount: sum.ItemCount, Total: sum.TotalText}, nil
}

// Start runs the MCP server on stdio until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting MCP server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
