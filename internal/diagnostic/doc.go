// Package diagnostic collects findings about an input table as it is read,
// validated and allocated: label problems, ragged rows, unranked pairs and
// entries left without a partner. Errors reject the table; warnings and
// infos travel with the result.
package diagnostic
