// Package types defines the configuration, network catalogue, receipt and
// interface types shared by the tableland client runtime, along with its
// standard errors.
//
// A Connection is built from a partial Config. It prepares whichever of the
// signer, registry, validator and database resources the configuration allows,
// and gates every accessor behind Ready.
package types
