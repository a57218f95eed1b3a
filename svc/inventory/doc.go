// Package inventory keeps the store item catalogue encrypted at rest.
//
// Every display field is ciphertext. The name and each product code also
// carry a search hash so items can be found by exact name or code without
// decrypting the collection. A field that fails to decrypt is returned as its
// zero value and logged; it never fails the request.
package inventory
