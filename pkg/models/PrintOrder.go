package models

type PrintProduct struct {
	ID          string
	Name        string
	Price       float64
	Icon        string
	Description string
	VariantID   int
}

var PrintProducts = []PrintProduct{
	{ID: "canvas", Name: "Gallery Canvas", Price: 49.99, Icon: "🖼️", Description: "Museum quality wrap (16x20)", VariantID: 3},
	{ID: "mug", Name: "Morning Mug", Price: 14.99, Icon: "☕", Description: "11oz ceramic mug", VariantID: 1320},
	{ID: "shirt", Name: "Artist Tee", Price: 24.99, Icon: "👕", Description: "Soft cotton youth tee", VariantID: 4011},
	{ID: "book", Name: "Hardcover Book", Price: 39.99, Icon: "📚", Description: "20-page memory book", VariantID: 9123},
}

func FindPrintProduct(id string) (PrintProduct, bool) {
	for _, p := range PrintProducts {
		if p.ID == id {
			return p, true
		}
	}

	return PrintProduct{}, false
}

type Recipient struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	City     string `json:"city"`
	State    string `json:"state_code"`
	Country  string `json:"country_code"`
	Zip      string `json:"zip"`
}

type OrderRequest struct {
	ArtworkURL   string
	Recipient    Recipient
	ProductID    string
	PaymentToken string
}

type OrderResult struct {
	OrderID string
}
