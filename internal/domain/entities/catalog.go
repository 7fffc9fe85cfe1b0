package entities

// Merhav é a zona regional usada para agrupar usuários e anúncios
type Merhav string

const (
	MerhavYarden    Merhav = "ירדן"
	MerhavGilboa    Merhav = "גלבוע"
	MerhavAsher     Merhav = "אשר"
	MerhavCarmel    Merhav = "כרמל"
	MerhavSharon    Merhav = "שרון"
	MerhavYarkon    Merhav = "ירקון"
	MerhavDan       Merhav = "דן"
	MerhavAyalon    Merhav = "איילון"
	MerhavLachish   Merhav = "לכיש"
	MerhavNegev     Merhav = "נגב"
	MerhavJerusalem Merhav = "ירושלים"
)

var merhavim = []Merhav{
	MerhavYarden, MerhavGilboa, MerhavAsher, MerhavCarmel, MerhavSharon, MerhavYarkon,
	MerhavDan, MerhavAyalon, MerhavLachish, MerhavNegev, MerhavJerusalem,
}

// Merhavim retorna todas as zonas conhecidas
func Merhavim() []Merhav {
	return append([]Merhav(nil), merhavim...)
}

func (m Merhav) IsValid() bool {
	for _, v := range merhavim {
		if m == v {
			return true
		}
	}
	return false
}

// Category é a categoria de equipamento de um anúncio
type Category string

const (
	CategoryShirts   Category = "חולצות"
	CategoryCoats    Category = "מעילים"
	CategoryFleeces  Category = "פליזים"
	CategoryTrousers Category = "מכנסיים"
	CategoryShoes    Category = "נעליים"
	CategoryOther    Category = "אחר"
)

var categories = []Category{
	CategoryShirts, CategoryCoats, CategoryFleeces, CategoryTrousers, CategoryShoes, CategoryOther,
}

func (c Category) IsValid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

// TransactionType define como o equipamento muda de mãos
type TransactionType string

const (
	TransactionGive     TransactionType = "מסירה"
	TransactionLend     TransactionType = "השאלה"
	TransactionExchange TransactionType = "החלפה"
)

var transactionTypes = []TransactionType{TransactionGive, TransactionLend, TransactionExchange}

func (t TransactionType) IsValid() bool {
	for _, v := range transactionTypes {
		if t == v {
			return true
		}
	}
	return false
}
