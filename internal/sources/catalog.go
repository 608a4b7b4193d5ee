// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package sources

// SourceType distinguishes synthetic sources from real upstream APIs.
type SourceType string

const (
	TypeMocked  SourceType = "mocked"
	TypeRealAPI SourceType = "real_api"
)

// Definition describes one entry in the static data-source catalog.
type Definition struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           SourceType `json:"type"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category,omitempty"`
	Capabilities   []string   `json:"capabilities,omitempty"`
	MockEventTypes []string   `json:"mockEventTypes,omitempty"`
	DefaultAPI     string     `json:"-"`
}

// catalog is the fixed set of known data sources. Sources are selected by id;
// unknown ids are skipped during aggregation.
var catalog = []Definition{
	{
		ID:             "website",
		Name:           "Website Events",
		Type:           TypeMocked,
		Description:    "User behavior, page views and conversion events from the storefront",
		Category:       "Web Analytics",
		Capabilities:   []string{"pageviews", "sessions", "conversions", "user_events"},
		MockEventTypes: []string{"page_view", "session_start", "conversion", "cart_abandonment"},
		DefaultAPI:     "https://api.example.com/analytics",
	},
	{
		ID:             "shopify",
		Name:           "Shopify Store",
		Type:           TypeMocked,
		Description:    "E-commerce orders, customers and products",
		Category:       "E-commerce",
		Capabilities:   []string{"orders", "customers", "products", "inventory"},
		MockEventTypes: []string{"order_created", "order_cancelled", "customer_created", "product_viewed"},
		DefaultAPI:     "https://api.shopify.com/admin/api/2023-01/orders.json",
	},
	{
		ID:             "facebook_page",
		Name:           "Facebook Page",
		Type:           TypeMocked,
		Description:    "Social engagement metrics and audience insights",
		Category:       "Social Media",
		Capabilities:   []string{"posts", "engagement", "audience_insights", "messages"},
		MockEventTypes: []string{"post_published", "comment_received", "message_received", "follower_gained"},
		DefaultAPI:     "https://graph.facebook.com/v18.0/me/posts",
	},
	{
		ID:             "google_tag_manager",
		Name:           "Google Tag Manager",
		Type:           TypeMocked,
		Description:    "Enhanced tracking and event management",
		Category:       "Analytics",
		Capabilities:   []string{"custom_events", "enhanced_ecommerce", "goal_tracking"},
		MockEventTypes: []string{"custom_event", "enhanced_ecommerce", "goal_completion"},
	},
	{
		ID:             "google_ads_tag",
		Name:           "Google Ads Tag",
		Type:           TypeMocked,
		Description:    "Advertising performance and conversion tracking",
		Category:       "Advertising",
		Capabilities:   []string{"ad_performance", "conversion_tracking", "audience_data"},
		MockEventTypes: []string{"ad_click", "conversion", "impression", "cost_data"},
		DefaultAPI:     "https://googleads.googleapis.com/v13/customers",
	},
	{
		ID:             "crm_system",
		Name:           "CRM System",
		Type:           TypeMocked,
		Description:    "Customer records, tiers and support interactions",
		Category:       "Customer Data",
		Capabilities:   []string{"contacts", "tiers", "support_tickets"},
		MockEventTypes: []string{"customer_tier_upgrade", "support_interaction", "contact_updated"},
		DefaultAPI:     "https://api.hubspot.com/crm/v3/objects/contacts",
	},
}

// Catalog returns the static source catalog in declaration order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog definition for id.
func Lookup(id string) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
