package verify_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/restassured/pkg/verify"
)

type Stuff struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Answer *int   `json:"answer"`
}

type thing struct {
	id  int64
	alt string
}

func (t thing) RecordID() any { return t.id }

func (t thing) AltID() (string, bool) { return t.alt, t.alt != "" }

func ExampleVerifier_Verify() {
	persisted := verify.MapRecord{
		"name":  "other things",
		"thing": verify.RelatedID{ID: 7},
		"tags":  verify.IDs(1, 2, 3),
	}
	v := verify.Verifier{Schema: verify.Schema{
		"thing": verify.SingleRelation,
		"tags":  verify.MultiRelation,
	}}
	err := v.Verify(persisted, verify.Submitted{
		"name":  "other things",
		"thing": 7,
		"tags":  []int{1, 2},
	}, nil)
	fmt.Println(err)
	// Output: <nil>
}

func TestVerifier_Verify(t *testing.T) {
	s := testcase.NewSpec(t)

	var (
		schema = testcase.Let(s, func(t *testcase.T) verify.Schema {
			return verify.Schema{}
		})
		relationValue = testcase.Let(s, func(t *testcase.T) verify.RelationValueFunc {
			return nil
		})
		persisted = testcase.Let(s, func(t *testcase.T) verify.Record {
			return nil
		})
		submitted     = testcase.Let(s, func(t *testcase.T) verify.Submitted {
			return verify.Submitted{}
		})
		expected = testcase.Let(s, func(t *testcase.T) verify.Expected {
			return nil
		})
	)
	act := func(t *testcase.T) error {
		v := verify.Verifier{
			Schema:        schema.Get(t),
			RelationValue: relationValue.Get(t),
		}
		return v.Verify(persisted.Get(t), submitted.Get(t), expected.Get(t))
	}

	s.When("the record is a struct with scalar fields", func(s *testcase.Spec) {
		name := testcase.Let(s, func(t *testcase.T) string {
			return t.Random.String()
		})
		persisted.Let(s, func(t *testcase.T) verify.Record {
			return verify.StructRecord(Stuff{ID: 42, Name: name.Get(t)})
		})

		s.And("the submitted value matches the persisted one", func(s *testcase.Spec) {
			submitted.Let(s, func(t *testcase.T) verify.Submitted {
				return verify.Submitted{"name": name.Get(t)}
			})

			s.Then("verification passes", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})

			s.Then("calling it repeatedly yields the same outcome", func(t *testcase.T) {
				t.Must.NoError(act(t))
				t.Must.NoError(act(t))
			})

			s.And("the expected results override the field with a different value", func(s *testcase.Spec) {
				expected.Let(s, func(t *testcase.T) verify.Expected {
					return verify.Expected{"name": name.Get(t) + "-override"}
				})

				s.Then("the override takes precedence and verification fails", func(t *testcase.T) {
					var mismatch verify.MismatchError
					t.Must.True(errors.As(act(t), &mismatch))
					t.Must.Equal("name", mismatch.Field)
					t.Must.Equal(any(name.Get(t)+"-override"), mismatch.Expected)
				})
			})
		})

		s.And("the submitted value differs", func(s *testcase.Spec) {
			submitted.Let(s, func(t *testcase.T) verify.Submitted {
				return verify.Submitted{"name": "A"}
			})
			persisted.Let(s, func(t *testcase.T) verify.Record {
				return verify.StructRecord(Stuff{Name: "B"})
			})

			s.Then("a mismatch is reported with the field, expected and actual value", func(t *testcase.T) {
				var mismatch verify.MismatchError
				t.Must.True(errors.As(act(t), &mismatch))
				t.Must.Equal(verify.MismatchError{Field: "name", Expected: "A", Actual: "B"}, mismatch)
			})

			s.And("the expected results define the persisted value", func(s *testcase.Spec) {
				expected.Let(s, func(t *testcase.T) verify.Expected {
					return verify.Expected{"name": "B"}
				})

				s.Then("verification passes", func(t *testcase.T) {
					t.Must.NoError(act(t))
				})
			})
		})

		s.And("the submitted field is not part of the record", func(s *testcase.Spec) {
			submitted.Let(s, func(t *testcase.T) verify.Submitted {
				return verify.Submitted{"colour": "red"}
			})

			s.Then("the lookup error is propagated", func(t *testcase.T) {
				err := act(t)
				t.Must.ErrorIs(verify.ErrFieldNotFound, err)
				var mismatch verify.MismatchError
				t.Must.False(errors.As(err, &mismatch))
			})
		})

		s.And("multiple fields mismatch", func(s *testcase.Spec) {
			submitted.Let(s, func(t *testcase.T) verify.Submitted {
				return verify.Submitted{"id": 7, "name": "A"}
			})

			s.Then("all mismatches are reported", func(t *testcase.T) {
				err := act(t)
				t.Must.Error(err)
				t.Must.Contain(err.Error(), `id: expected 7, got 42`)
				t.Must.Contain(err.Error(), `name: expected "A"`)
			})
		})
	})

	s.When("the field is a single-valued relation", func(s *testcase.Spec) {
		schema.Let(s, func(t *testcase.T) verify.Schema {
			return verify.Schema{"thing": verify.SingleRelation}
		})
		related := testcase.Let(s, func(t *testcase.T) thing {
			return thing{id: 7}
		})
		persisted.Let(s, func(t *testcase.T) verify.Record {
			return verify.MapRecord{"thing": related.Get(t)}
		})
		submitted.Let(s, func(t *testcase.T) verify.Submitted {
			return verify.Submitted{"thing": 7}
		})

		s.Then("the related record's primary identifier is compared as a string", func(t *testcase.T) {
			t.Must.NoError(act(t))
		})

		s.And("the expected results hold the stringified identifier", func(s *testcase.Spec) {
			expected.Let(s, func(t *testcase.T) verify.Expected {
				return verify.Expected{"thing": "7"}
			})

			s.Then("verification passes", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})
		})

		s.And("the relation points to a different record", func(s *testcase.Spec) {
			related.Let(s, func(t *testcase.T) thing {
				return thing{id: 8}
			})

			s.Then("a mismatch is reported", func(t *testcase.T) {
				var mismatch verify.MismatchError
				t.Must.True(errors.As(act(t), &mismatch))
				t.Must.Equal(verify.MismatchError{Field: "thing", Expected: "7", Actual: "8"}, mismatch)
			})
		})

		s.And("the related record has an alternate identifier", func(s *testcase.Spec) {
			related.Let(s, func(t *testcase.T) thing {
				return thing{id: 99, alt: "7"}
			})

			s.Then("the alternate identifier is used", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})
		})

		s.And("a relation value policy is configured", func(s *testcase.Spec) {
			relationValue.Let(s, func(t *testcase.T) verify.RelationValueFunc {
				return func(field string, related verify.RelatedRecord) (string, error) {
					return fmt.Sprintf("/stuff/%v/", related.RecordID()), nil
				}
			})
			submitted.Let(s, func(t *testcase.T) verify.Submitted {
				return verify.Submitted{"thing": "/stuff/7/"}
			})

			s.Then("the policy's value is compared", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})
		})

		s.And("the persisted value is the plain identifier of the related record", func(s *testcase.Spec) {
			persisted.Let(s, func(t *testcase.T) verify.Record {
				return verify.StructRecord(RelatedStuff{ID: 1, Thing: 7})
			})

			s.Then("the identifier is compared", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})

			s.And("it points to a different record", func(s *testcase.Spec) {
				submitted.Let(s, func(t *testcase.T) verify.Submitted {
					return verify.Submitted{"thing": 8}
				})

				s.Then("a mismatch is reported", func(t *testcase.T) {
					var mismatch verify.MismatchError
					t.Must.True(errors.As(act(t), &mismatch))
					t.Must.Equal(verify.MismatchError{Field: "thing", Expected: "8", Actual: "7"}, mismatch)
				})
			})

			s.And("a relation value policy is configured", func(s *testcase.Spec) {
				relationValue.Let(s, func(t *testcase.T) verify.RelationValueFunc {
					return func(field string, related verify.RelatedRecord) (string, error) {
						return fmt.Sprintf("/stuff/%v/", related.RecordID()), nil
					}
				})
				submitted.Let(s, func(t *testcase.T) verify.Submitted {
					return verify.Submitted{"thing": "/stuff/7/"}
				})

				s.Then("the policy receives the identifier", func(t *testcase.T) {
					t.Must.NoError(act(t))
				})
			})
		})

		s.And("the relation is empty", func(s *testcase.Spec) {
			persisted.Let(s, func(t *testcase.T) verify.Record {
				return verify.MapRecord{"thing": nil}
			})

			s.Then("a mismatch is reported", func(t *testcase.T) {
				var mismatch verify.MismatchError
				t.Must.True(errors.As(act(t), &mismatch))
				t.Must.Equal(verify.MismatchError{Field: "thing", Expected: "7", Actual: ""}, mismatch)
			})
		})
	})

	s.When("the field is a multi-valued relation", func(s *testcase.Spec) {
		schema.Let(s, func(t *testcase.T) verify.Schema {
			return verify.Schema{"tags": verify.MultiRelation}
		})
		members := testcase.Let(s, func(t *testcase.T) verify.Members {
			return verify.IDs(1, 2, 3)
		})
		persisted.Let(s, func(t *testcase.T) verify.Record {
			return verify.MapRecord{"tags": members.Get(t)}
		})
		submitted.Let(s, func(t *testcase.T) verify.Submitted {
			return verify.Submitted{"tags": []int{1, 2}}
		})

		s.Then("extra members on the relation are accepted", func(t *testcase.T) {
			t.Must.NoError(act(t))
		})

		s.And("the submitted identifiers are in a different order", func(s *testcase.Spec) {
			submitted.Let(s, func(t *testcase.T) verify.Submitted {
				return verify.Submitted{"tags": []string{"3", "1"}}
			})

			s.Then("verification passes", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})
		})

		s.And("a submitted identifier is missing from the relation", func(s *testcase.Spec) {
			members.Let(s, func(t *testcase.T) verify.Members {
				return verify.IDs(1)
			})

			s.Then("the missing identifier is reported", func(t *testcase.T) {
				var mismatch verify.MismatchError
				t.Must.True(errors.As(act(t), &mismatch))
				t.Must.Equal("tags", mismatch.Field)
				t.Must.Equal(any("2"), mismatch.Expected)
				t.Must.Equal(any([]string{"1"}), mismatch.Actual)
			})
		})

		s.And("the expected results define a different value for the field", func(s *testcase.Spec) {
			expected.Let(s, func(t *testcase.T) verify.Expected {
				return verify.Expected{"tags": []int{42}}
			})

			s.Then("the submitted identifiers are checked", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})
		})

		s.And("the submitted value is not a sequence", func(s *testcase.Spec) {
			submitted.Let(s, func(t *testcase.T) verify.Submitted {
				return verify.Submitted{"tags": 1}
			})

			s.Then("an unexpected shape error is returned", func(t *testcase.T) {
				t.Must.ErrorIs(verify.ErrUnexpectedShape, act(t))
			})
		})

		s.And("the persisted value is a plain sequence of identifiers", func(s *testcase.Spec) {
			persisted.Let(s, func(t *testcase.T) verify.Record {
				return verify.MapRecord{"tags": []int64{3, 2, 1}}
			})

			s.Then("membership is checked against the identifiers", func(t *testcase.T) {
				t.Must.NoError(act(t))
			})

			s.And("a submitted identifier is missing from it", func(s *testcase.Spec) {
				submitted.Let(s, func(t *testcase.T) verify.Submitted {
					return verify.Submitted{"tags": []int{4}}
				})

				s.Then("the missing identifier is reported", func(t *testcase.T) {
					var mismatch verify.MismatchError
					t.Must.True(errors.As(act(t), &mismatch))
					t.Must.Equal(any("4"), mismatch.Expected)
				})
			})
		})

		s.And("the persisted value is neither a relation nor a sequence", func(s *testcase.Spec) {
			persisted.Let(s, func(t *testcase.T) verify.Record {
				return verify.MapRecord{"tags": 42}
			})

			s.Then("an unexpected shape error is returned", func(t *testcase.T) {
				t.Must.ErrorIs(verify.ErrUnexpectedShape, act(t))
			})
		})
	})
}

func TestVerifier_Verify_collaborators(t *testing.T) {
	s := testcase.NewSpec(t)

	ctrl := testcase.Let(s, func(t *testcase.T) *gomock.Controller {
		return gomock.NewController(t)
	})
	record := testcase.Let(s, func(t *testcase.T) *MockRecord {
		return NewMockRecord(ctrl.Get(t))
	})

	s.Test("relation members are enumerated through the Relation capability", func(t *testcase.T) {
		relation := NewMockRelation(ctrl.Get(t))
		member := NewMockRelatedRecord(ctrl.Get(t))
		member.EXPECT().RecordID().Return(int64(2))
		relation.EXPECT().Members().Return([]verify.RelatedRecord{member}, nil)
		record.Get(t).EXPECT().Field("stuff").Return(relation, nil)

		v := verify.Verifier{Schema: verify.Schema{"stuff": verify.MultiRelation}}
		t.Must.NoError(v.Verify(record.Get(t), verify.Submitted{"stuff": []int64{2}}, nil))
	})

	s.Test("enumeration errors abort the verification", func(t *testcase.T) {
		expErr := errors.New(t.Random.String())
		relation := NewMockRelation(ctrl.Get(t))
		relation.EXPECT().Members().Return(nil, expErr)
		record.Get(t).EXPECT().Field("stuff").Return(relation, nil)

		v := verify.Verifier{Schema: verify.Schema{"stuff": verify.MultiRelation}}
		t.Must.ErrorIs(expErr, v.Verify(record.Get(t), verify.Submitted{"stuff": []int64{2}}, nil))
	})

	s.Test("record lookup errors are returned unchanged", func(t *testcase.T) {
		expErr := errors.New(t.Random.String())
		record.Get(t).EXPECT().Field("name").Return(nil, expErr)

		t.Must.ErrorIs(expErr, verify.Verify(nil, record.Get(t), verify.Submitted{"name": "x"}, nil))
	})

	s.Test("the verifier only reads the record", func(t *testcase.T) {
		record.Get(t).EXPECT().Field("name").Return("x", nil).Times(2)

		v := verify.Verifier{}
		for i := 0; i < 2; i++ {
			t.Must.NoError(v.Verify(record.Get(t), verify.Submitted{"name": "x"}, nil))
		}
	})
}

func TestVerify_nilRecord(t *testing.T) {
	assert.Error(t, verify.Verify(nil, nil, verify.Submitted{"name": "x"}, nil))
}

func TestDefaultRelationValue(t *testing.T) {
	got, err := verify.DefaultRelationValue("thing", verify.RelatedID{ID: int64(7)})
	assert.NoError(t, err)
	assert.Equal(t, "7", got)

	got, err = verify.DefaultRelationValue("thing", verify.RelatedID{ID: int64(7), Alt: "seven"})
	assert.NoError(t, err)
	assert.Equal(t, "seven", got)

	got, err = verify.DefaultRelationValue("thing", verify.RelatedID{ID: float64(7)})
	assert.NoError(t, err)
	assert.Equal(t, "7", got)
}
