/*
Package pool implements the contribution ledger.

A pool collects contributions that are later distributed (see
x/distribution). Every contribution is transferred into the custody of the
pool and recorded together with the cumulative amount of each contributor,
the ordered list of distinct contributors and the global counters.

Prize pools keep the funds in a custody account derived from the pool id.
Charity pools forward contributions to the beneficiary directly and must be
verified by the configuration owner before accepting any.
*/
package pool
