package catalog

import (
	"fmt"

	"github.com/mediastore-next/internal/models"
)

// perCategoryCount 每个类目展开后的商品数量
const perCategoryCount = 25

// template 本地数据集模板（不含 ID 与类目）
type template struct {
	Title     string
	Genre     string
	Price     float64
	Stock     int
	Image     string
	ShortDesc string
	Details   map[string]interface{}
}

var library = map[models.Category][]template{
	models.CategoryBook: {
		{
			Title:     "1984",
			Genre:     "Science Fiction",
			Price:     13.99,
			Stock:     20,
			Image:     "https://images.unsplash.com/photo-1463320726281-696a485928c7?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "A dystopian classic about surveillance and control.",
			Details: map[string]interface{}{
				"author":    "George Orwell",
				"publisher": "Secker & Warburg",
				"pages":     328,
				"language":  "English",
				"isbn":      "978-0-452-28423-4",
			},
		},
		{
			Title:     "Dune",
			Genre:     "Science Fiction",
			Price:     18.99,
			Stock:     24,
			Image:     "https://images.unsplash.com/photo-1507842217343-583bb7270b66?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Epic science fiction saga on the desert planet Arrakis.",
			Details: map[string]interface{}{
				"author":    "Frank Herbert",
				"publisher": "Chilton Books",
				"pages":     412,
				"language":  "English",
				"isbn":      "978-0-441-17271-9",
			},
		},
		{
			Title:     "The Hobbit",
			Genre:     "Fantasy",
			Price:     14.99,
			Stock:     26,
			Image:     "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Bilbo Baggins embarks on an unexpected adventure.",
			Details: map[string]interface{}{
				"author":    "J.R.R. Tolkien",
				"publisher": "George Allen & Unwin",
				"pages":     310,
				"language":  "English",
				"isbn":      "978-0-618-00221-3",
			},
		},
		{
			Title:     "Pride and Prejudice",
			Genre:     "Romance",
			Price:     12.99,
			Stock:     22,
			Image:     "https://images.unsplash.com/photo-1463320898484-cdee8141c787?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "A classic tale of manners, upbringing, and marriage.",
			Details: map[string]interface{}{
				"author":    "Jane Austen",
				"publisher": "T. Egerton",
				"pages":     279,
				"language":  "English",
				"isbn":      "978-0-14-143951-8",
			},
		},
	},
	models.CategoryCD: {
		{
			Title:     "Abbey Road",
			Genre:     "Rock",
			Price:     11.49,
			Stock:     30,
			Image:     "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "The Beatles' iconic 1969 studio album.",
			Details: map[string]interface{}{
				"artist": "The Beatles",
				"label":  "Apple Records",
				"tracks": 17,
				"year":   1969,
			},
		},
		{
			Title:     "Kind of Blue",
			Genre:     "Jazz",
			Price:     10.99,
			Stock:     18,
			Image:     "https://images.unsplash.com/photo-1511379938547-c1f69419868d?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Miles Davis' landmark modal jazz session.",
			Details: map[string]interface{}{
				"artist": "Miles Davis",
				"label":  "Columbia",
				"tracks": 5,
				"year":   1959,
			},
		},
		{
			Title:     "Thriller",
			Genre:     "Pop",
			Price:     12.49,
			Stock:     34,
			Image:     "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "The best-selling album of all time.",
			Details: map[string]interface{}{
				"artist": "Michael Jackson",
				"label":  "Epic",
				"tracks": 9,
				"year":   1982,
			},
		},
		{
			Title:     "Back in Black",
			Genre:     "Rock",
			Price:     11.99,
			Stock:     28,
			Image:     "https://images.unsplash.com/photo-1498038432885-c6f3f1b912ee?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "AC/DC's thunderous 1980 comeback record.",
			Details: map[string]interface{}{
				"artist": "AC/DC",
				"label":  "Atlantic",
				"tracks": 10,
				"year":   1980,
			},
		},
	},
	models.CategoryNewspaper: {
		{
			Title:     "The Daily Chronicle",
			Genre:     "General News",
			Price:     2.50,
			Stock:     120,
			Image:     "https://images.unsplash.com/photo-1504711434969-e33886168f5c?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Morning paper covering national and world affairs.",
			Details: map[string]interface{}{
				"publisher": "Chronicle Media Group",
				"frequency": "Daily",
				"language":  "English",
			},
		},
		{
			Title:     "Financial Observer",
			Genre:     "Business",
			Price:     3.75,
			Stock:     80,
			Image:     "https://images.unsplash.com/photo-1526304640581-d334cdbbf45e?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Markets, companies and economic analysis.",
			Details: map[string]interface{}{
				"publisher": "Observer Press",
				"frequency": "Daily",
				"language":  "English",
			},
		},
		{
			Title:     "Sunday Arts Review",
			Genre:     "Culture",
			Price:     4.25,
			Stock:     60,
			Image:     "https://images.unsplash.com/photo-1457369804613-52c61a468e7d?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Weekly review of literature, film and music.",
			Details: map[string]interface{}{
				"publisher": "Review House",
				"frequency": "Weekly",
				"language":  "English",
			},
		},
	},
	models.CategoryDVD: {
		{
			Title:     "The Matrix",
			Genre:     "Science Fiction",
			Price:     15.99,
			Stock:     32,
			Image:     "https://images.unsplash.com/photo-1478720568477-152d9b164e26?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "A hacker discovers the true nature of reality.",
			Details: map[string]interface{}{
				"director": "The Wachowskis",
				"runtime":  "136 min",
				"studio":   "Warner Bros.",
			},
		},
		{
			Title:     "Pulp Fiction",
			Genre:     "Crime",
			Price:     17.99,
			Stock:     18,
			Image:     "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Quentin Tarantino's cult classic.",
			Details: map[string]interface{}{
				"director": "Quentin Tarantino",
				"runtime":  "154 min",
				"studio":   "Miramax",
			},
		},
		{
			Title:     "The Two Towers",
			Genre:     "Fantasy",
			Price:     16.99,
			Stock:     40,
			Image:     "https://images.unsplash.com/photo-1489515217757-5fd1be406fef?auto=format&fit=crop&w=800&q=80",
			ShortDesc: "Middle chapters of the LOTR trilogy.",
			Details: map[string]interface{}{
				"director": "Peter Jackson",
				"runtime":  "179 min",
				"studio":   "New Line Cinema",
			},
		},
	},
}

// Dataset 构建本地回退数据集。
// 每个类目将模板循环展开为固定数量的商品，
// ID 形如 Book-1、CD-3，与远端目录的编号约定一致。
func Dataset() []models.Product {
	categories := []models.Category{
		models.CategoryBook,
		models.CategoryCD,
		models.CategoryNewspaper,
		models.CategoryDVD,
	}

	var output []models.Product
	for _, category := range categories {
		templates := library[category]
		if len(templates) == 0 {
			continue
		}
		for count := 1; count <= perCategoryCount; count++ {
			tpl := templates[(count-1)%len(templates)]
			output = append(output, models.Product{
				ID:        fmt.Sprintf("%s-%d", category, count),
				Title:     fmt.Sprintf("%s %d", tpl.Title, count),
				Category:  category,
				Genre:     tpl.Genre,
				Price:     models.NewMoneyFromFloat(tpl.Price),
				Stock:     tpl.Stock,
				Image:     tpl.Image,
				ShortDesc: tpl.ShortDesc,
				Details:   tpl.Details,
			})
		}
	}
	return output
}
