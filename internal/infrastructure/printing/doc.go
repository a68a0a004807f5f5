// Package printing renders the print proof of an order: an HTML mock-up of
// the card front and back, converted to PDF by headless Chrome and stored
// next to the order.
package printing
