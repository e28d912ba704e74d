package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMembership(t *testing.T) {
	m := &Membership{Role: MembershipRoleAdmin, State: MembershipStateActive}
	assert.True(t, m.Admin())
	assert.True(t, m.Active())

	m = &Membership{Role: MembershipRoleMember, State: MembershipStatePending}
	assert.False(t, m.Admin())
	assert.False(t, m.Active())
}

func TestPlan_HasHeadroom(t *testing.T) {
	assert.True(t, (&Plan{OwnedPrivateRepos: 9, PrivateRepos: 10}).HasHeadroom())
	assert.False(t, (&Plan{OwnedPrivateRepos: 10, PrivateRepos: 10}).HasHeadroom())
	assert.False(t, (&Plan{OwnedPrivateRepos: 11, PrivateRepos: 10}).HasHeadroom())
	assert.False(t, (&Plan{}).HasHeadroom())
}
