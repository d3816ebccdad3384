/*
Package distribution implements the payout of a pool once the contributions
are collected.

A distribution is created once per pool by the pool admin. Prize pools are
split equally between the winners and each winner claims the share
separately. Charity pools are matched from the matching fund using
quadratic funding and the match is paid to the beneficiary immediately.

Shares that were not claimed within the claim period of the pool can be
rolled over into another pool, together with any remainder of the equal
split. A share is paid at most once, either by a claim or by a rollover.
*/
package distribution
