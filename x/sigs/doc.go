/*
Package sigs provides the authentication middleware that verifies the
signatures on a transaction and keeps a sequence per public key for replay
protection.

Each signature is made over

	version | len(chainID) | chainID | sequence | tx bytes
	4 bytes | 1 byte       | ascii   | 8 bytes  |

prehashed with sha512. The sequence is big endian and must equal the value
stored for the key, which is incremented on every use.
*/
package sigs
