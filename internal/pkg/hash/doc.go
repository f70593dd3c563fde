// Package hash provides helpers for hashing and verifying short secrets.
//
// The service stores only a keyed digest of each issued passcode: hash on
// issue, then verify user input by comparing the plaintext against the stored
// digest in constant time.
package hash
