// Package models contains the GORM persistence models. Domain aggregates stay
// free of ORM tags; each model converts with ToDomain and FromDomain.
//
// The product/customer exclusivity relation is stored in its own table,
// product_template_exclusive_partner_rel, and is loaded into both sides.
package models
