// Package money agrupa las conversiones de importes en libras esterlinas.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.BritishEnglish)
	hundred = decimal.NewFromInt(100)
)

// FormatGBP formatea un importe como "£ 1,234.50".
func FormatGBP(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printer.Sprint(currency.Symbol(currency.GBP.Amount(f)))
}

// ToMinorUnits convierte libras a peniques, redondeando al penique más cercano.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits convierte peniques a libras.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
